package service

import (
	"errors"
	"fmt"

	"github.com/opencodedocs/internal/db"
)

// 错误分为四类：校验失败、记录不存在、受保护条目、存储失败。
// 调用方通过 errors.Is / errors.As 判断类别。
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrProtectedEntry = errors.New("menu entry is protected")

	ErrTitleRequired  = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong   = fmt.Errorf("%w: title exceeds %d characters", ErrValidation, db.MenuTitleMaxRunes)
	ErrCycle          = fmt.Errorf("%w: parent would become its own ancestor", ErrValidation)
	ErrInvalidOrder   = fmt.Errorf("%w: invalid sibling order", ErrValidation)
	ErrPageNotFound   = fmt.Errorf("page %w", ErrNotFound)
	ErrParentNotFound = fmt.Errorf("parent %w", ErrNotFound)
)

// StorageError 包装底层持久化失败，不做重试，由调用方决定是否重试整个操作。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageErr 将未归类的错误包装成 StorageError，领域错误原样返回。
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProtectedEntry) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
