package header

type Other struct {
	B []int `equatable:""`
}
