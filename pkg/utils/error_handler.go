package utils

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrorHandler logs the underlying cause and returns an error carrying
// only message, so handlers can hand it straight to the client.
func ErrorHandler(err error, message string) error {
	if err == nil {
		return nil
	}
	Logger.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Error(message)
	return errors.New(message)
}
