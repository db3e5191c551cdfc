package reactor

import "errors"

var (
	// ErrAlreadyRunning 反应器已在运行
	ErrAlreadyRunning = errors.New("reactor: already running")

	// ErrStopped 反应器已停止，不可重新运行
	ErrStopped = errors.New("reactor: stopped")
)
