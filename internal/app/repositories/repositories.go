package repositories

import (
	"github.com/JackLockhart04/course-genius/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository     *CourseRepository
	AssignmentRepository *AssignmentRepository
	ProfileRepository    *ProfileRepository
	StatsRepository      *StatsRepository
}

// NewRepositories initializes all repositories on the restricted database
// capability. No repository ever sees the RLS-bypassing pool.
func NewRepositories(userDB *db.UserDB) *Repositories {
	return &Repositories{
		CourseRepository:     NewCourseRepository(userDB),
		AssignmentRepository: NewAssignmentRepository(userDB),
		ProfileRepository:    NewProfileRepository(userDB),
		StatsRepository:      NewStatsRepository(userDB),
	}
}
