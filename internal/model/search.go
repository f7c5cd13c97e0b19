package model

// TriggerMatch is the first log line that ended with the trigger string.
// A nil *TriggerMatch means the trigger was not found.
type TriggerMatch struct {
	File    string
	Line    int
	Content string
}

// TriggerQuery describes which log entry of a run archive to scan and what
// to look for in it.
type TriggerQuery struct {
	JobName  string
	StepName string
	Trigger  string
}
