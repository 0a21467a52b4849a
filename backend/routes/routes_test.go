package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"skilllist/backend/config"
	"skilllist/backend/middleware"
	"skilllist/backend/models"
	"skilllist/backend/storage"
)

const storageKey = "skillListCourses"

type client struct {
	t       *testing.T
	app     *fiber.App
	kv      *storage.MemoryStore
	cookies []*http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{StorageKey: storageKey, SessionTTL: time.Hour}
	kv := storage.NewMemoryStore()
	app := fiber.New()
	app.Use(middleware.LoggingMiddleware(log))
	require.NoError(t, SetupRoutes(app, kv, cfg, log))

	return &client{t: t, app: app, kv: kv}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := c.app.Test(req)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.cookies = []*http.Cookie{ck}
		}
	}
	return resp
}

func (c *client) postJSON(path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp := c.do(req)
	var result map[string]interface{}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&result))
	return resp, result
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp := c.do(httptest.NewRequest(fiber.MethodGet, path, nil))
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) stored() []models.Course {
	c.t.Helper()
	return storage.NewCourseStore(c.kv, storageKey, nil).Load(context.Background())
}

func dataOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok, "response has no data: %v", result)
	return data
}

func stateOf(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	return dataOf(t, result)["state"].(map[string]interface{})
}

func addCourse(t *testing.T, c *client, name, total string) {
	t.Helper()
	resp, _ := c.postJSON("/courses", map[string]string{"courseName": name, "platform": "Udemy", "totalVideos": total})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestScenario(t *testing.T) {
	c := newClient(t)

	resp, result := c.postJSON("/courses", map[string]string{"courseName": "X", "platform": "Y", "totalVideos": "10"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	table := dataOf(t, result)["table"].(map[string]interface{})
	assert.Equal(t, float64(1), table["count"])
	row := table["rows"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(0), row["percentDone"])

	resp, result = c.postJSON("/courses/0/update", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "update", stateOf(t, result)["view"])
	assert.Equal(t, "0", dataOf(t, result)["prompt"].(map[string]interface{})["completed"])

	resp, result = c.postJSON("/update/confirm", map[string]string{"completed": "5"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", stateOf(t, result)["view"])
	row = dataOf(t, result)["table"].(map[string]interface{})["rows"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(50), row["percentDone"])
	assert.Equal(t, float64(50), row["percentLeft"])

	resp, result = c.postJSON("/courses/0/delete", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "delete", stateOf(t, result)["view"])

	resp, result = c.postJSON("/delete/confirm", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	table = dataOf(t, result)["table"].(map[string]interface{})
	assert.Equal(t, float64(0), table["count"])
	assert.Equal(t, true, table["empty"])
	assert.Empty(t, c.stored())
}

func TestAddCourseValidation(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")

	resp, result := c.postJSON("/courses", map[string]string{"courseName": " ", "platform": "Y", "totalVideos": "10"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Please fill in all required fields!", result["message"])
	assert.Contains(t, result["details"], "courseName")
	assert.Len(t, c.stored(), 1)
}

func TestAddCourseForm(t *testing.T) {
	c := newClient(t)

	resp := c.postForm("/courses", url.Values{"courseName": {"SQL"}, "platform": {"Coursera"}, "link": {"https://example.com"}, "totalVideos": {"4h"}})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	courses := c.stored()
	require.Len(t, courses, 1)
	assert.Equal(t, "SQL", courses[0].CourseName)
	assert.Equal(t, "https://example.com", courses[0].Link)
	assert.Equal(t, "0", courses[0].Completed)
	_, err := time.Parse(models.DateLayout, courses[0].DateAdded)
	assert.NoError(t, err)

	_, page := c.get("/")
	assert.Contains(t, page, "<strong>SQL</strong>")
	assert.Contains(t, page, `<span id="totalCourses">1</span>`)
}

func TestAddCourseFormRejectedShowsNotice(t *testing.T) {
	c := newClient(t)

	resp := c.postForm("/courses", url.Values{"courseName": {"SQL"}})
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, c.stored())

	_, page := c.get("/")
	assert.Contains(t, page, "Please fill in all required fields!")

	_, page = c.get("/")
	assert.NotContains(t, page, "Please fill in all required fields!")
}

func TestUpdateFlowThroughPage(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")
	addCourse(t, c, "SQL", "20")

	c.postForm("/courses/1/update", nil)
	_, page := c.get("/")
	assert.Contains(t, page, `id="updateModal" class="modal show"`)
	assert.Contains(t, page, `<span id="modalCourseName">SQL</span>`)

	c.postForm("/update/confirm", url.Values{"completed": {""}})
	_, page = c.get("/")
	assert.Contains(t, page, "Please enter completion value!")
	assert.Contains(t, page, `id="updateModal" class="modal show"`)

	c.postForm("/update/confirm", url.Values{"completed": {"15"}})
	_, page = c.get("/")
	assert.Contains(t, page, `id="updateModal" class="modal"`)

	courses := c.stored()
	assert.Equal(t, "0", courses[0].Completed)
	assert.Equal(t, "15", courses[1].Completed)
}

func TestConfirmWithoutActiveIndex(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")

	resp, result := c.postJSON("/update/confirm", map[string]string{"completed": "5"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "", stateOf(t, result)["view"])

	resp, _ = c.postJSON("/delete/confirm", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	courses := c.stored()
	require.Len(t, courses, 1)
	assert.Equal(t, "0", courses[0].Completed)
}

func TestBeginWithUnknownIndex(t *testing.T) {
	c := newClient(t)

	resp, _ := c.postJSON("/courses/3/update", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = c.postJSON("/courses/abc/delete", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestKeyboardAndDismiss(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")

	c.postJSON("/courses/0/update", nil)
	_, result := c.postJSON("/modal/key", map[string]string{"key": "Escape"})
	assert.Equal(t, "", stateOf(t, result)["view"])

	c.postJSON("/courses/0/update", nil)
	_, result = c.postJSON("/modal/key", map[string]string{"key": "Enter", "completed": "8"})
	assert.Equal(t, "", stateOf(t, result)["view"])
	assert.Equal(t, "8", c.stored()[0].Completed)

	c.postJSON("/courses/0/delete", nil)
	_, result = c.postJSON("/modal/key", map[string]string{"key": "Enter"})
	assert.Equal(t, "delete", stateOf(t, result)["view"])
	_, result = c.postJSON("/modal/dismiss", map[string]string{"view": "update"})
	assert.Equal(t, "delete", stateOf(t, result)["view"])
	_, result = c.postJSON("/modal/dismiss", map[string]string{"view": "delete"})
	assert.Equal(t, "", stateOf(t, result)["view"])
	assert.Len(t, c.stored(), 1)

	c.postJSON("/courses/0/delete", nil)
	_, result = c.postJSON("/modal/cancel", nil)
	assert.Equal(t, "", stateOf(t, result)["view"])
	assert.Len(t, c.stored(), 1)
}

func TestStateIsPerSession(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")
	c.postJSON("/courses/0/delete", nil)

	other := &client{t: t, app: c.app, kv: c.kv}
	resp, _ := other.postJSON("/delete/confirm", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, c.stored(), 1)

	resp, _ = c.postJSON("/delete/confirm", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, c.stored())
}

func TestListAndTable(t *testing.T) {
	c := newClient(t)

	_, body := c.get("/table")
	assert.Contains(t, body, `class="empty-state show"`)

	addCourse(t, c, "Go", "4")
	resp, body := c.get("/api/courses")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	assert.Equal(t, float64(1), dataOf(t, result)["count"])

	_, body = c.get("/table")
	assert.Contains(t, body, "<strong>Go</strong>")
	assert.NotContains(t, body, `class="empty-state show"`)

	_, body = c.get("/api/state")
	assert.Contains(t, body, `"view":""`)
}

func TestMalformedBlobRendersEmpty(t *testing.T) {
	c := newClient(t)
	require.NoError(t, c.kv.SetItem(context.Background(), storageKey, "{not json"))

	resp, page := c.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `class="empty-state show"`)

	addCourse(t, c, "Go", "10")
	assert.Len(t, c.stored(), 1)
}

func TestProgressOverview(t *testing.T) {
	c := newClient(t)
	addCourse(t, c, "Go", "10")
	addCourse(t, c, "SQL", "10")
	c.postJSON("/courses/0/update", nil)
	c.postJSON("/update/confirm", map[string]string{"completed": "10"})

	resp, body := c.get("/api/progress/overview")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	data := dataOf(t, result)
	assert.Equal(t, float64(2), data["totalCourses"])
	assert.Equal(t, float64(1), data["coursesCompleted"])
	assert.Equal(t, float64(1), data["coursesNotStarted"])
	assert.Equal(t, float64(50), data["averagePercentDone"])
}
