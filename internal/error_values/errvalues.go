package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrOwnerNotFound    = errors.New("owner of the entity doesn't exist")
	ErrWrongOwner       = errors.New("entity belongs to another user")
	ErrValidation       = errors.New("validation error")
)

var (
	ErrHabitNotFound       = errors.New("habit doesn't exist")
	ErrUserHasHabit        = errors.New("user already has habit with such title")
	ErrInvalidSchedule     = errors.New("invalid weekly schedule")
	ErrCheckExist          = errors.New("habit is already checked on this date")
	ErrCheckNotFound       = errors.New("habit isn't checked on this date")
	ErrCheckDateNotAllowed = errors.New("checks in the future are not allowed")
	ErrCheckBeforeCreation = errors.New("check date is before the habit was created")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidPeriod       = errors.New("invalid statistics period")
)

var (
	ErrTaskNotFound = errors.New("task doesn't exist")
	ErrCacheMiss    = errors.New("cache miss")
)
