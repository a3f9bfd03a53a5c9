package adminbiz

import "errors"

var (
	ErrInvalidRegistryParam = errors.New("adminbiz: registry group, key and value are required")
	ErrInvalidJobInfo       = errors.New("adminbiz: invalid job info")
	ErrUnknownOperation     = errors.New("adminbiz: unknown operation")
)
