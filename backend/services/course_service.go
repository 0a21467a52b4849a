package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"skilllist/backend/models"
)

var (
	ErrMissingFields     = errors.New("required course fields are empty")
	ErrMissingCompletion = errors.New("completion value is empty")
	ErrCourseNotFound    = errors.New("course not found")
)

// UserMessage is the notice shown to the user when err rejects a mutation.
func UserMessage(err error) string {
	switch errors.Cause(err) {
	case ErrMissingFields:
		return "Please fill in all required fields!"
	case ErrMissingCompletion:
		return "Please enter completion value!"
	case ErrCourseNotFound:
		return "This course no longer exists."
	case nil:
		return ""
	}
	return "Something went wrong, please try again."
}

// CourseRepository loads and saves the full course list.
type CourseRepository interface {
	Load(ctx context.Context) []models.Course
	Save(ctx context.Context, courses []models.Course) error
}

// FieldErrors maps a json field name to its validation message.
type FieldErrors map[string]string

// ValidationError is returned when a mutation is rejected before any state change.
type ValidationError struct {
	Err    error
	Fields FieldErrors
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Cause() error  { return e.Err }
func (e *ValidationError) Unwrap() error { return e.Err }

type CourseService struct {
	Repo     CourseRepository
	Log      *logrus.Logger
	Validate *validator.Validate
	Now      func() time.Time

	mu sync.Mutex
}

func NewCourseService(repo CourseRepository, log *logrus.Logger) *CourseService {
	if log == nil {
		log = logrus.New()
	}
	return &CourseService{
		Repo:     repo,
		Log:      log,
		Validate: newValidator(),
		Now:      time.Now,
	}
}

func (s *CourseService) List(ctx context.Context) []models.Course {
	return s.Repo.Load(ctx)
}

func (s *CourseService) Get(ctx context.Context, index int) (models.Course, error) {
	courses := s.Repo.Load(ctx)
	if index < 0 || index >= len(courses) {
		return models.Course{}, ErrCourseNotFound
	}
	return courses[index], nil
}

// Add appends a new course with no progress.
func (s *CourseService) Add(ctx context.Context, input models.CourseInput) (models.Course, error) {
	input.CourseName = strings.TrimSpace(input.CourseName)
	input.Platform = strings.TrimSpace(input.Platform)
	input.Link = strings.TrimSpace(input.Link)
	input.TotalVideos = strings.TrimSpace(input.TotalVideos)

	if err := s.check(input, ErrMissingFields); err != nil {
		return models.Course{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	course := models.NewCourse(input, s.Now())
	courses := append(s.Repo.Load(ctx), course)
	if err := s.Repo.Save(ctx, courses); err != nil {
		return models.Course{}, err
	}

	s.Log.WithFields(logrus.Fields{"course": course.CourseName, "count": len(courses)}).Info("course added")
	return course, nil
}

// SetCompletion overwrites the completed value of the course at index.
func (s *CourseService) SetCompletion(ctx context.Context, index int, completed string) error {
	input := models.CompletionInput{Completed: strings.TrimSpace(completed)}
	if err := s.check(input, ErrMissingCompletion); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.Repo.Load(ctx)
	if index < 0 || index >= len(courses) {
		return ErrCourseNotFound
	}
	courses[index].Completed = input.Completed
	if err := s.Repo.Save(ctx, courses); err != nil {
		return err
	}

	s.Log.WithFields(logrus.Fields{"index": index, "completed": input.Completed}).Info("course completion updated")
	return nil
}

// Remove deletes the course at index; later courses move up by one.
func (s *CourseService) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.Repo.Load(ctx)
	if index < 0 || index >= len(courses) {
		return ErrCourseNotFound
	}
	removed := courses[index]
	courses = append(courses[:index], courses[index+1:]...)
	if err := s.Repo.Save(ctx, courses); err != nil {
		return err
	}

	s.Log.WithFields(logrus.Fields{"index": index, "course": removed.CourseName, "count": len(courses)}).Info("course deleted")
	return nil
}

func (s *CourseService) check(input interface{}, sentinel error) error {
	err := s.Validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate input")
	}

	fields := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Field() + " is required!"
	}
	return &ValidationError{Err: sentinel, Fields: fields}
}
