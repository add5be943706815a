package failure

//equatable:generate
type Bad struct {
	Name string `equatable:"ignorecase"`
}

//equatable:equals nope
func (b *Bad) Upper() string { return b.Name }
