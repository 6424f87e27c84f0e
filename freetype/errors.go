package freetype

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned when the FreeType library could not be loaded.
var ErrNotLoaded = errors.New("freetype: library not loaded")

// ErrLibraryNotFound is returned when no FreeType shared object was found.
var ErrLibraryNotFound = errors.New("freetype: shared library not found")

// FreeType error codes used by this package (fterrdef.h).
const (
	ErrCodeOK                   int32 = 0x00
	ErrCodeCannotOpenResource   int32 = 0x01
	ErrCodeUnknownFileFormat    int32 = 0x02
	ErrCodeInvalidFileFormat    int32 = 0x03
	ErrCodeInvalidVersion       int32 = 0x04
	ErrCodeInvalidArgument      int32 = 0x06
	ErrCodeUnimplementedFeature int32 = 0x07
	ErrCodeInvalidHandle        int32 = 0x20
	ErrCodeInvalidLibraryHandle int32 = 0x21
	ErrCodeInvalidFaceHandle    int32 = 0x23
	ErrCodeOutOfMemory          int32 = 0x40
)

// Error is an error reported by FreeType.
type Error struct {
	Code    int32  // Raw FT_Error
	Message string // Human-readable message
	Op      string // FreeType function that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("freetype %s: %s (error 0x%02X)", e.Op, e.Message, e.Code)
}

// newError creates an Error from an FT_Error. Returns nil if code is 0.
func newError(code int32, op string) error {
	if code == ErrCodeOK {
		return nil
	}
	return &Error{Code: code, Message: errorString(code), Op: op}
}

// Code returns the FreeType error code from an error, or 0 if err is not a
// FreeType error.
func Code(err error) int32 {
	var ftErr *Error
	if errors.As(err, &ftErr) {
		return ftErr.Code
	}
	return 0
}

// errorString describes code, preferring FT_Error_String when the loaded
// library provides it (FreeType 2.10+ built with error strings).
func errorString(code int32) string {
	if ftErrorString != nil {
		if s := ftErrorString(code); s != "" {
			return s
		}
	}
	if s, ok := errorMessages[code]; ok {
		return s
	}
	return "unknown error"
}

var errorMessages = map[int32]string{
	ErrCodeCannotOpenResource:   "cannot open resource",
	ErrCodeUnknownFileFormat:    "unknown file format",
	ErrCodeInvalidFileFormat:    "broken file",
	ErrCodeInvalidVersion:       "invalid FreeType version",
	ErrCodeInvalidArgument:      "invalid argument",
	ErrCodeUnimplementedFeature: "unimplemented feature",
	ErrCodeInvalidHandle:        "invalid object handle",
	ErrCodeInvalidLibraryHandle: "invalid library handle",
	ErrCodeInvalidFaceHandle:    "invalid face handle",
	ErrCodeOutOfMemory:          "out of memory",
}
