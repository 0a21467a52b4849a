package models

type ProgressOverview struct {
	TotalCourses       int `json:"totalCourses"`
	CoursesCompleted   int `json:"coursesCompleted"`
	CoursesInProgress  int `json:"coursesInProgress"`
	CoursesNotStarted  int `json:"coursesNotStarted"`
	AveragePercentDone int `json:"averagePercentDone"`
}
