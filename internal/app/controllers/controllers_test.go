package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/app/controllers"
	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/app/repositories"
	"github.com/JackLockhart04/course-genius/internal/app/routes"
	"github.com/JackLockhart04/course-genius/internal/app/services"
	"github.com/JackLockhart04/course-genius/internal/middleware"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
	"github.com/JackLockhart04/course-genius/internal/pkg/identity"
)

// memoryStore is an in-memory backing for all three services, scoped by owner
// the way the row-level policies scope the real tables.
type memoryStore struct {
	courses     map[uuid.UUID]*models.Course
	assignments map[uuid.UUID]*models.Assignment
	profiles    map[uuid.UUID]*models.Profile
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		courses:     make(map[uuid.UUID]*models.Course),
		assignments: make(map[uuid.UUID]*models.Assignment),
		profiles:    make(map[uuid.UUID]*models.Profile),
	}
}

func (m *memoryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Course, error) {
	out := make([]models.Course, 0)
	for _, c := range m.courses {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.ErrCourseNotFound
	}
	copy := *c
	return &copy, nil
}

func (m *memoryStore) Create(_ context.Context, course *models.Course) error {
	course.ID = uuid.New()
	course.CreatedAt = time.Now()
	stored := *course
	m.courses[course.ID] = &stored
	return nil
}

func (m *memoryStore) Update(ctx context.Context, ownerID, id uuid.UUID, changes *models.CourseChanges) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok || c.OwnerID != ownerID {
		return nil, apperrors.ErrCourseNotFound
	}
	if changes.Name.Set && changes.Name.Valid {
		c.Name = changes.Name.Value
	}
	if changes.Credits.Set && changes.Credits.Valid {
		c.Credits = changes.Credits.Value
	}
	if changes.Semester.Set {
		c.Semester = changes.Semester.Ptr()
	}
	if changes.Color.Set {
		c.Color = changes.Color.Ptr()
	}
	if changes.FinalLetterGrade.Set {
		c.FinalLetterGrade = changes.FinalLetterGrade.Ptr()
	}
	if changes.FinalGradePoints.Set {
		c.FinalGradePoints = changes.FinalGradePoints.Ptr()
	}
	copy := *c
	return &copy, nil
}

func (m *memoryStore) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	c, ok := m.courses[id]
	if !ok || c.OwnerID != ownerID {
		return apperrors.ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

type memoryAssignmentStore struct{ *memoryStore }

func (m memoryAssignmentStore) courseVisible(ownerID, courseID uuid.UUID) bool {
	c, ok := m.courses[courseID]
	return ok && c.OwnerID == ownerID
}

func (m memoryAssignmentStore) ListByCourse(_ context.Context, ownerID, courseID uuid.UUID) ([]models.Assignment, error) {
	if !m.courseVisible(ownerID, courseID) {
		return nil, apperrors.ErrCourseNotFound
	}
	out := make([]models.Assignment, 0)
	for _, a := range m.assignments {
		if a.CourseID == courseID && a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m memoryAssignmentStore) GetByID(_ context.Context, ownerID, courseID, id uuid.UUID) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok || a.OwnerID != ownerID || a.CourseID != courseID {
		return nil, apperrors.ErrAssignmentNotFound
	}
	copy := *a
	return &copy, nil
}

func (m memoryAssignmentStore) Create(_ context.Context, assignment *models.Assignment) error {
	if !m.courseVisible(assignment.OwnerID, assignment.CourseID) {
		return apperrors.ErrCourseNotFound
	}
	assignment.ID = uuid.New()
	assignment.CreatedAt = time.Now()
	stored := *assignment
	m.assignments[assignment.ID] = &stored
	return nil
}

func (m memoryAssignmentStore) Update(ctx context.Context, ownerID, courseID, id uuid.UUID, changes *models.AssignmentChanges) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok || a.OwnerID != ownerID || a.CourseID != courseID {
		return nil, apperrors.ErrAssignmentNotFound
	}
	if changes.Title.Set && changes.Title.Valid {
		a.Title = changes.Title.Value
	}
	if changes.Weight.Set && changes.Weight.Valid {
		a.Weight = changes.Weight.Value
	}
	if changes.MaxScore.Set && changes.MaxScore.Valid {
		a.MaxScore = changes.MaxScore.Value
	}
	if changes.Score.Set {
		a.Score = changes.Score.Ptr()
	}
	if changes.DueDate.Set {
		a.DueDate = changes.DueDate.Ptr()
	}
	copy := *a
	return &copy, nil
}

func (m memoryAssignmentStore) Delete(_ context.Context, ownerID, courseID, id uuid.UUID) error {
	a, ok := m.assignments[id]
	if !ok || a.OwnerID != ownerID || a.CourseID != courseID {
		return apperrors.ErrAssignmentNotFound
	}
	delete(m.assignments, id)
	return nil
}

type memoryStatsStore struct{ *memoryStore }

func (m memoryStatsStore) GetCourseTotals(_ context.Context, ownerID, courseID uuid.UUID) (repositories.CourseTotals, error) {
	var totals repositories.CourseTotals
	for _, a := range m.assignments {
		if a.CourseID != courseID || a.OwnerID != ownerID || a.Score == nil {
			continue
		}
		totals.EarnedPoints += a.Weight * *a.Score / a.MaxScore
		totals.CompletedWeight += a.Weight
	}
	return totals, nil
}

type memoryProfileStore struct{ *memoryStore }

func (m memoryProfileStore) Ensure(_ context.Context, id uuid.UUID, displayName string) (*models.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		p.UpdatedAt = time.Now()
		copy := *p
		return &copy, nil
	}
	p := &models.Profile{ID: id, DisplayName: displayName, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.profiles[id] = p
	copy := *p
	return &copy, nil
}

// tokenVerifier maps opaque token strings to identities.
type tokenVerifier map[string]identity.Identity

func (v tokenVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	ident, ok := v[token]
	if !ok {
		return nil, apperrors.ErrTokenInvalid
	}
	return &ident, nil
}

type testAPI struct {
	router *gin.Engine
	store  *memoryStore
}

func newTestAPI(verifier identity.Verifier) *testAPI {
	gin.SetMode(gin.TestMode)
	store := newMemoryStore()

	courseService := services.NewCourseService(store, memoryStatsStore{store})
	assignmentService := services.NewAssignmentService(memoryAssignmentStore{store})
	userService := services.NewUserService(memoryProfileStore{store})

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewCourseController(courseService),
		controllers.NewAssignmentController(assignmentService),
		controllers.NewUserController(userService),
		middleware.NewAuthMiddleware(verifier),
	)

	return &testAPI{router: router, store: store}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decodeInto[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	api := newTestAPI(tokenVerifier{})

	w := api.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestCoursesRequireAuthentication(t *testing.T) {
	api := newTestAPI(tokenVerifier{})

	for _, path := range []string{"/api/v1/courses", "/api/v1/user/me"} {
		w := api.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, w.Code)
		}

		body := decodeInto[dto.ErrorResponse](t, w)
		if body.Detail == "" {
			t.Errorf("GET %s: empty detail in error body", path)
		}
	}
}

func TestCourseLifecycle(t *testing.T) {
	alice := identity.Identity{ID: uuid.New(), Email: "alice@example.edu"}
	api := newTestAPI(tokenVerifier{"alice-token": alice})

	// Empty list before anything exists, as [] not null.
	w := api.do(t, http.MethodGet, "/api/v1/courses", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" && body != "[]\n" {
		t.Errorf("empty list body = %q, want []", body)
	}

	// Create.
	w = api.do(t, http.MethodPost, "/api/v1/courses", "alice-token",
		map[string]any{"name": "Linear Algebra", "semester": "Fall 2026"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeInto[models.Course](t, w)
	if created.OwnerID != alice.ID {
		t.Errorf("OwnerID = %v, want the caller", created.OwnerID)
	}
	if created.Credits != 3.0 {
		t.Errorf("Credits = %v, want default 3.0", created.Credits)
	}

	// Read back.
	w = api.do(t, http.MethodGet, "/api/v1/courses/"+created.ID.String(), "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	// Patch only the name; semester must survive.
	w = api.do(t, http.MethodPatch, "/api/v1/courses/"+created.ID.String(), "alice-token",
		map[string]any{"name": "Linear Algebra II"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status = %d, body %s", w.Code, w.Body.String())
	}
	patched := decodeInto[models.Course](t, w)
	if patched.Name != "Linear Algebra II" {
		t.Errorf("Name = %q", patched.Name)
	}
	if patched.Semester == nil || *patched.Semester != "Fall 2026" {
		t.Errorf("Semester = %v, want untouched", patched.Semester)
	}

	// Delete.
	w = api.do(t, http.MethodDelete, "/api/v1/courses/"+created.ID.String(), "alice-token", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = api.do(t, http.MethodGet, "/api/v1/courses/"+created.ID.String(), "alice-token", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestForeignCourseLooksAbsent(t *testing.T) {
	alice := identity.Identity{ID: uuid.New(), Email: "alice@example.edu"}
	bob := identity.Identity{ID: uuid.New(), Email: "bob@example.edu"}
	api := newTestAPI(tokenVerifier{"alice-token": alice, "bob-token": bob})

	w := api.do(t, http.MethodPost, "/api/v1/courses", "alice-token", map[string]any{"name": "Secret Seminar"})
	created := decodeInto[models.Course](t, w)

	// Bob sees a 404, indistinguishable from a nonexistent id.
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w = api.do(t, method, "/api/v1/courses/"+created.ID.String(), "bob-token", nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s as non-owner: status = %d, want 404", method, w.Code)
		}
	}

	w = api.do(t, http.MethodGet, "/api/v1/courses", "bob-token", nil)
	courses := decodeInto[[]models.Course](t, w)
	if len(courses) != 0 {
		t.Errorf("bob lists %d courses, want 0", len(courses))
	}
}

func TestInvalidCourseID(t *testing.T) {
	alice := identity.Identity{ID: uuid.New()}
	api := newTestAPI(tokenVerifier{"alice-token": alice})

	w := api.do(t, http.MethodGet, "/api/v1/courses/not-a-uuid", "alice-token", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateCourseMissingName(t *testing.T) {
	alice := identity.Identity{ID: uuid.New()}
	api := newTestAPI(tokenVerifier{"alice-token": alice})

	w := api.do(t, http.MethodPost, "/api/v1/courses", "alice-token", map[string]any{"credits": 4})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeInto[dto.ErrorResponse](t, w)
	if body.Detail != "name is required" {
		t.Errorf("detail = %q, want field-level message", body.Detail)
	}
}

func TestAssignmentLifecycleAndStats(t *testing.T) {
	alice := identity.Identity{ID: uuid.New(), Email: "alice@example.edu"}
	api := newTestAPI(tokenVerifier{"alice-token": alice})

	w := api.do(t, http.MethodPost, "/api/v1/courses", "alice-token", map[string]any{"name": "Physics"})
	course := decodeInto[models.Course](t, w)
	base := "/api/v1/courses/" + course.ID.String() + "/assignments"

	// Graded midterm: 45/50 at weight 40.
	w = api.do(t, http.MethodPost, base, "alice-token",
		map[string]any{"title": "Midterm", "weight": 40, "max_score": 50, "score": 45})
	if w.Code != http.StatusCreated {
		t.Fatalf("create midterm: status = %d, body %s", w.Code, w.Body.String())
	}
	midterm := decodeInto[models.Assignment](t, w)

	// Ungraded final does not count toward the average.
	w = api.do(t, http.MethodPost, base, "alice-token",
		map[string]any{"title": "Final", "weight": 60})
	if w.Code != http.StatusCreated {
		t.Fatalf("create final: status = %d", w.Code)
	}

	w = api.do(t, http.MethodGet, "/api/v1/courses/"+course.ID.String()+"/stats", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status = %d", w.Code)
	}
	stats := decodeInto[models.CourseStats](t, w)
	if stats.CurrentAverage != 90.0 {
		t.Errorf("CurrentAverage = %v, want 90.0", stats.CurrentAverage)
	}
	if stats.CompletedWeight != 40.0 {
		t.Errorf("CompletedWeight = %v, want 40.0", stats.CompletedWeight)
	}

	// Un-grade the midterm with an explicit null score.
	w = api.do(t, http.MethodPatch, fmt.Sprintf("%s/%s", base, midterm.ID), "alice-token",
		map[string]any{"score": nil})
	if w.Code != http.StatusOK {
		t.Fatalf("ungrade: status = %d, body %s", w.Code, w.Body.String())
	}
	ungraded := decodeInto[models.Assignment](t, w)
	if ungraded.Score != nil {
		t.Errorf("Score = %v, want null after un-grade", *ungraded.Score)
	}

	w = api.do(t, http.MethodGet, "/api/v1/courses/"+course.ID.String()+"/stats", "alice-token", nil)
	stats = decodeInto[models.CourseStats](t, w)
	if stats.CurrentAverage != 0.0 || stats.CompletedWeight != 0.0 {
		t.Errorf("stats after un-grade = %+v, want zeros", stats)
	}

	// Delete the assignment.
	w = api.do(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, midterm.ID), "alice-token", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", w.Code)
	}
}

func TestAssignmentsUnderForeignCourse(t *testing.T) {
	alice := identity.Identity{ID: uuid.New()}
	bob := identity.Identity{ID: uuid.New()}
	api := newTestAPI(tokenVerifier{"alice-token": alice, "bob-token": bob})

	w := api.do(t, http.MethodPost, "/api/v1/courses", "alice-token", map[string]any{"name": "Physics"})
	course := decodeInto[models.Course](t, w)
	base := "/api/v1/courses/" + course.ID.String() + "/assignments"

	w = api.do(t, http.MethodGet, base, "bob-token", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("list under foreign course: status = %d, want 404", w.Code)
	}

	w = api.do(t, http.MethodPost, base, "bob-token", map[string]any{"title": "Planted"})
	if w.Code != http.StatusNotFound {
		t.Errorf("create under foreign course: status = %d, want 404", w.Code)
	}
}

func TestGetMe(t *testing.T) {
	alice := identity.Identity{ID: uuid.New(), Email: "alice@example.edu", DisplayName: "Alice"}
	api := newTestAPI(tokenVerifier{"alice-token": alice})

	w := api.do(t, http.MethodGet, "/api/v1/user/me", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	profile := decodeInto[dto.ProfileResponse](t, w)
	if profile.ID != alice.ID {
		t.Errorf("ID = %v, want %v", profile.ID, alice.ID)
	}
	if profile.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q", profile.DisplayName)
	}
	if profile.Email != "alice@example.edu" {
		t.Errorf("Email = %q", profile.Email)
	}

	// The first call provisioned the row.
	if _, ok := api.store.profiles[alice.ID]; !ok {
		t.Error("profile row was not provisioned on first call")
	}
}
