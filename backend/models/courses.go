package models

import "time"

// DateLayout matches the ISO-8601 form browsers produce for dateAdded.
const DateLayout = "2006-01-02T15:04:05.000Z"

type Course struct {
	CourseName  string `json:"courseName"`
	Platform    string `json:"platform"`
	Link        string `json:"link"`
	TotalVideos string `json:"totalVideos"`
	Completed   string `json:"completed"`
	DateAdded   string `json:"dateAdded"`
}

// NewCourse builds a course with no progress, stamped at now.
func NewCourse(input CourseInput, now time.Time) Course {
	return Course{
		CourseName:  input.CourseName,
		Platform:    input.Platform,
		Link:        input.Link,
		TotalVideos: input.TotalVideos,
		Completed:   "0",
		DateAdded:   now.UTC().Format(DateLayout),
	}
}

type CourseInput struct {
	CourseName  string `json:"courseName" form:"courseName" validate:"required"`
	Platform    string `json:"platform" form:"platform" validate:"required"`
	Link        string `json:"link" form:"link"`
	TotalVideos string `json:"totalVideos" form:"totalVideos" validate:"required"`
}

type CompletionInput struct {
	Completed string `json:"completed" form:"completed" validate:"required"`
}
