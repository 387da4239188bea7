//go:build extra

package canonical

//equal:generate
type TestExtra struct {
	Note string
}
