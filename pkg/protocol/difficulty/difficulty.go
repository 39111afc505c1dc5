package difficulty

import "strconv"

type ID int32

const (
	Peaceful ID = iota
	Easy
	Normal
	Hard
)

func (d ID) Valid() bool {
	return d >= Peaceful && d <= Hard
}

func (d ID) String() string {
	switch d {
	case Peaceful:
		return "peaceful"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return strconv.Itoa(int(d))
	}
}

func (d ID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
