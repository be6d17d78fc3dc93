package pkguid

import "fmt"

// NewStringID returns the StringID implementation registered under kind.
// An empty kind selects UUID.
func NewStringID(kind string) (StringID, error) {
	switch kind {
	case "", "uuid":
		return NewUUID(), nil
	case "snowflake":
		return NewSnowflakeString()
	default:
		return nil, fmt.Errorf("unknown id generator %q", kind)
	}
}
