package controller

import "errors"

// ErrNoSelection is returned when a UI intent is applied while no devices
// are selected.
var ErrNoSelection = errors.New("controller: no devices selected")
