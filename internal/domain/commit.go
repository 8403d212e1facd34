package domain

import "time"

type FileStatus string

const (
	FileAdded     FileStatus = "added"
	FileModified  FileStatus = "modified"
	FileRemoved   FileStatus = "removed"
	FileRenamed   FileStatus = "renamed"
	FileCopied    FileStatus = "copied"
	FileChanged   FileStatus = "changed"
	FileUnchanged FileStatus = "unchanged"
)

func (s FileStatus) Valid() bool {
	switch s {
	case FileAdded, FileModified, FileRemoved, FileRenamed, FileCopied, FileChanged, FileUnchanged:
		return true
	}
	return false
}

// Commit is a historical fact and is never updated once stored.
type Commit struct {
	ID          uint         `json:"-"`
	RepoID      uint         `json:"-"`
	SHA         string       `json:"sha"`
	AuthorName  string       `json:"author_name"`
	AuthorEmail string       `json:"author_email"`
	AuthorLogin string       `json:"author_login,omitempty"`
	Date        time.Time    `json:"date"`
	Message     string       `json:"message"`
	URL         string       `json:"url"`
	Files       []CommitFile `json:"files,omitempty"`
}

// Username is the identity a commit is attributed to in rollups.
func (c Commit) Username() string {
	if c.AuthorLogin != "" {
		return c.AuthorLogin
	}
	return c.AuthorName
}

type CommitFile struct {
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Changes   int        `json:"changes"`
}
