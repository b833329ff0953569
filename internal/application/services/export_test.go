package services

import "time"

// SetClock replaces the time source used to stamp records
func (s *ReviewService) SetClock(now func() time.Time) { s.now = now }

// SetClock replaces the time source used to stamp records
func (s *ContactService) SetClock(now func() time.Time) { s.now = now }

// SetClock replaces the time source used to build object keys
func (s *UploadService) SetClock(now func() time.Time) { s.now = now }
