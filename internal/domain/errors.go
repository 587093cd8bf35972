package domain

import "errors"

var (
	ErrPayloadNotFound = errors.New("payload not found")
	ErrMissingCustomer = errors.New("shipment line has no customer name")
	ErrMissingSpecies  = errors.New("shipment line has no species")
	ErrNegativeBoxes   = errors.New("box count cannot be negative")
	ErrNegativeWeight  = errors.New("weight cannot be negative")
	ErrEmptyAWB        = errors.New("shipment AWB must be set (use the MISSING sentinel when unknown)")
)
