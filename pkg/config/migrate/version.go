package migrate

import (
	"fmt"
	"strconv"
	"strings"
)

// parseVersion splits a major.minor.patch string into its components.
func parseVersion(v string) (major, minor, patch int, err error) {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("version %q is not major.minor.patch", v)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("version %q is not major.minor.patch", v)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// Compare orders two schema versions. It returns a negative value when
// a < b, zero when equal, positive when a > b.
func Compare(a, b string) (int, error) {
	aMajor, aMinor, aPatch, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	bMajor, bMinor, bPatch, err := parseVersion(b)
	if err != nil {
		return 0, err
	}

	for _, d := range []int{aMajor - bMajor, aMinor - bMinor, aPatch - bPatch} {
		if d != 0 {
			return d, nil
		}
	}
	return 0, nil
}
