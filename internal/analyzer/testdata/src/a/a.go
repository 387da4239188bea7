package a

import "sync"

//equal:generate
type Widget struct {
	Name  string
	OnTap func() // want `arbitrary closures are not supported`
	mu    sync.Mutex
}

//equal:generate
type Button struct {
	Label string
	Click func() //equal:ignore // want `equal:ignore cannot be applied to closures`
	Count int    //equal:safeclosure // want `equal:safeclosure can only be applied to closures`
	Done  func() //equal:safeclosure
}

//equal:generate
type Guarded struct {
	mu sync.Mutex //equal:ignore // want `equal:ignore cannot be applied to sync.Mutex fields`
	N  int
}

//equal:generate
type Color int // want `//equal:generate can only be applied to struct declarations`

//equal:hashable // want `equal:hashable can only be applied to type declarations`
func helper() {}

//equal:nope // want `unknown directive equal:nope`
var _ = helper
