package scene

import "errors"

var (
	ErrSelfParent      = errors.New("can't parent an entity to itself")
	ErrCyclicHierarchy = errors.New("can't parent an entity to its descendant")
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrBorrowConflict  = errors.New("entity is already borrowed")
	ErrReleasedHandle  = errors.New("handle already released")
)
