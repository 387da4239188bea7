package canonical

import (
	"sync"
	"time"
)

// UUID is a 16 byte identifier.
type UUID [16]byte

//equal:generate
//equal:hashable
type TestEmbedded struct {
	ID UUID `json:"id" yaml:"id" mapstructure:"id"`
}

type PrimaryKey interface {
	~string |
		// smaller int primary key types can be used for enums with small id spaces
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		// UUIDs, ULIDs, etc.
		~[16]byte
}

//equal:generate
type TestEmbeddedGeneric[T PrimaryKey] struct {
	ID T `json:"id" yaml:"id" mapstructure:"id"`
}

//equal:generate
//equal:hashable
type TestWidget struct {
	TestEmbedded `mapstructure:",squash" json:",inline" yaml:",inline"`
	WodgetID     UUID      `json:"wodget_id" yaml:"wodget_id" mapstructure:"wodget_id"`
	Name         string    `json:"name" yaml:"name" mapstructure:"name"`
	Category     int       `json:"age" yaml:"age" mapstructure:"age"`
	Updated      time.Time `json:"updated" yaml:"updated" mapstructure:"updated"`
}

type TestWidgets []*TestWidget

//equal:generate
type TestWodget struct {
	TestEmbedded `mapstructure:",squash" json:",inline" yaml:",inline"`
	Widgets      TestWidgets         `json:"widgets" yaml:"widgets" mapstructure:"widgets"`
	OnChange     func(w *TestWodget) `json:"-" equal:"safeclosure"`
	mu           sync.RWMutex
}

type TestWodgets []TestWodget

//equal:generate isolation=main
type TestWadget struct {
	Ref UUID   `json:"ref" yaml:"ref" mapstructure:"ref"`
	Key string `json:"key" yaml:"key" mapstructure:"key"`
	// DepField Deprecated this field will be removed in a subsequent release
	DepField string         `json:"dep_field" yaml:"dep_field" mapstructure:"dep_field" equal:"-"`
	WodgetID UUID           `json:"wodget_id" yaml:"wodget_id" mapstructure:"wodget_id"`
	Wodgets  TestWodgets    `json:"wodgets" yaml:"wodgets" mapstructure:"wodgets"`
	Labels   map[string]int `json:"labels" yaml:"labels" mapstructure:"labels"`
}

// TestDeprecatedStruct
// Deprecated
type TestDeprecatedStruct struct {
	TestEmbedded `mapstructure:",squash" json:",inline" yaml:",inline"`
}

//equal:generate isolation=.isolated
type TestWidgetGeneric struct {
	TestEmbeddedGeneric[UUID] `mapstructure:",squash" json:",inline" yaml:",inline"`
	WidgetID                  UUID `json:"widget_id" mapstructure:"widget_id" yaml:"widget_id"`
}
