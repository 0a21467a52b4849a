package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"skilllist/backend/models"
)

// CourseStore persists the whole course list as one JSON blob under Key.
type CourseStore struct {
	KV  KVStore
	Key string
	Log *logrus.Logger
}

func NewCourseStore(kv KVStore, key string, log *logrus.Logger) *CourseStore {
	return &CourseStore{KV: kv, Key: key, Log: log}
}

// Load never fails: a missing, unreadable or malformed blob is an empty list.
func (s *CourseStore) Load(ctx context.Context) []models.Course {
	raw, ok, err := s.KV.GetItem(ctx, s.Key)
	if err != nil {
		s.warn(err, "course list unreadable, treating as empty")
		return []models.Course{}
	}
	if !ok || raw == "" {
		return []models.Course{}
	}

	var courses []models.Course
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		s.warn(err, "course list malformed, treating as empty")
		return []models.Course{}
	}
	if courses == nil {
		return []models.Course{}
	}
	return courses
}

// Save overwrites the stored blob with courses.
func (s *CourseStore) Save(ctx context.Context, courses []models.Course) error {
	if courses == nil {
		courses = []models.Course{}
	}
	raw, err := json.Marshal(courses)
	if err != nil {
		return errors.Wrap(err, "encode course list")
	}
	return errors.Wrap(s.KV.SetItem(ctx, s.Key, string(raw)), "save course list")
}

func (s *CourseStore) warn(err error, msg string) {
	if s.Log != nil {
		s.Log.WithError(err).WithField("key", s.Key).Warn(msg)
	}
}
