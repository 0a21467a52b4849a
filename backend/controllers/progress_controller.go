package controllers

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"skilllist/backend/models"
	"skilllist/backend/services"
	"skilllist/backend/utils"
)

type ProgressController struct {
	Courses *services.CourseService
}

func NewProgressController(courses *services.CourseService) *ProgressController {
	return &ProgressController{Courses: courses}
}

// GetProgressOverview godoc
// @Summary Get progress overview
// @Description Returns how many tracked courses are finished, started or untouched
// @Tags progress
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /api/progress/overview [get]
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, Overview(pc.Courses.List(c.UserContext())))
}

// Overview summarises courses by their done percentage.
func Overview(courses []models.Course) models.ProgressOverview {
	overview := models.ProgressOverview{TotalCourses: len(courses)}
	if len(courses) == 0 {
		return overview
	}

	sum := 0
	for _, course := range courses {
		done := utils.PercentDone(course.Completed, course.TotalVideos)
		sum += done
		switch {
		case done >= 100:
			overview.CoursesCompleted++
		case done > 0:
			overview.CoursesInProgress++
		default:
			overview.CoursesNotStarted++
		}
	}
	overview.AveragePercentDone = int(math.Round(float64(sum) / float64(len(courses))))
	return overview
}
