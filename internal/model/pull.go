package model

// PullRequest is the abbreviated pull request object embedded in a workflow
// run. Only the number is needed to label or comment on it.
type PullRequest struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	URL    string `json:"url"`
	Head   Ref    `json:"head"`
	Base   Ref    `json:"base"`
}

type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type IssueComment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}
