package generated

//equatable:generate
type Thing struct {
	A int `equatable:""`
}

type Other struct {
	B string
}
