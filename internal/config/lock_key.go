package config

import (
	"fmt"

	"github.com/google/uuid"
)

type LockKeyStruct struct{}

func NewLockKeyStruct() *LockKeyStruct {
	return &LockKeyStruct{}
}

// Student returns the lock key guarding a student's enrollment writes
func (r *LockKeyStruct) Student(studentID uuid.UUID) string {
	return fmt.Sprintf("lock:student:%s", studentID)
}

var LockKey = NewLockKeyStruct()
