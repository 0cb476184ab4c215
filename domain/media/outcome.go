package media

// Outcome is the result of one download cycle: Success or Failure
type Outcome struct {
	Success   bool
	LocalPath string
	Reason    string
}

// Succeeded returns a Success outcome pointing at path
func Succeeded(path string) Outcome {
	return Outcome{Success: true, LocalPath: path}
}

// Failed returns a Failure outcome with the given error description
func Failed(reason string) Outcome {
	return Outcome{Reason: reason}
}
