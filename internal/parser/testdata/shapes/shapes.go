package shapes

import (
	"context"
	s "sync"
	"sync/atomic"
	"time"
)

type Handler func(string) error

// Person is compared by value.
//
//equal:generate isolation=main
//equal:hashable
type Person struct {
	Name     string
	LastName string
	ID       int64
	mu       s.Mutex
	hits     atomic.Int64
	ctx      context.Context
	OnTap    *func()
	Notify   Handler //equal:safeclosure
	Created  time.Time
	Cache    map[string]int `equal:"-"`
	_        struct{}
}

type Plain struct {
	A int
}

// Color is not a struct.
//
//equal:generate
type Color int

type Tagged struct {
	Fn func() `equal:"safeclosure"`
	X  int    //equal:generate
}

//equal:ignore
func helper() {}

//equal:bogus
var _ = helper
