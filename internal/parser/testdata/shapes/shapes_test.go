package shapes

//equal:generate
type fixture struct {
	N int
}
