package validation

import (
	"fmt"
	"regexp"
)

// DeviceNamePattern определяет допустимый формат имени устройства
// Только латинские буквы (a-z, A-Z), цифры (0-9), дефис и нижнее подчеркивание
// Длина: 3-32 символа
var DeviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const (
	// MinDeviceNameLen минимальная длина имени устройства
	MinDeviceNameLen = 3
	// MaxDeviceNameLen максимальная длина имени устройства
	MaxDeviceNameLen = 32
)

// ValidateDeviceName проверяет имя устройства, на которое выпускается токен
func ValidateDeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("device name cannot be empty")
	}

	if len(name) < MinDeviceNameLen {
		return fmt.Errorf("device name must be at least %d characters long", MinDeviceNameLen)
	}

	if len(name) > MaxDeviceNameLen {
		return fmt.Errorf("device name must not exceed %d characters", MaxDeviceNameLen)
	}

	if !DeviceNamePattern.MatchString(name) {
		return fmt.Errorf("device name can only contain letters (a-z, A-Z), numbers (0-9), hyphens and underscores")
	}

	return nil
}
