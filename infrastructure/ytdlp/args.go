package ytdlp

import "tubefetch/domain/media"

// Line markers yt-dlp is told to print so that progress and produced files can
// be told apart from its regular output.
const (
	progressMarker = "[tubefetch:progress] "
	sourceMarker   = "[tubefetch:source] "
	outputMarker   = "[tubefetch:output] "
	errorPrefix    = "ERROR:"
)

func inspectArgs(url string, quiet bool) []string {
	args := []string{"--dump-single-json", "--flat-playlist", "--no-progress"}
	if quiet {
		args = append(args, "--no-warnings")
	}
	return append(args, "--", url)
}

func listFormatsArgs(url string) []string {
	return []string{"--dump-single-json", "--playlist-items", "1", "--no-warnings", "--", url}
}

func fetchArgs(req *media.FetchRequest) []string {
	args := []string{
		"--newline",
		"--progress",
		"--no-simulate",
		"--progress-template", "download:" + progressMarker + "%(progress)j",
		"--print", "post_process:" + sourceMarker + "%(filepath)s",
		"--print", "after_move:" + outputMarker + "%(filepath)s",
		"-f", req.Format,
		"-o", req.OutputTemplate,
	}

	if req.Collection {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}
	if req.MergeFormat != "" {
		args = append(args, "--merge-output-format", req.MergeFormat)
	}
	if req.Audio != nil {
		// the downloaded source is kept; removing it is the caller's post-processing step
		args = append(args,
			"--extract-audio",
			"--audio-format", req.Audio.Codec,
			"--audio-quality", req.Audio.Bitrate+"K",
			"--keep-video",
		)
	}
	if req.TranscoderPath != "" {
		args = append(args, "--ffmpeg-location", req.TranscoderPath)
	}
	if req.Quiet {
		args = append(args, "--no-warnings")
	}

	return append(args, "--", req.URL)
}
