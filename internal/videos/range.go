package videos

import (
	"strconv"
	"strings"

	pkgerrors "github.com/gadgetbay/gadgetbay-backend/pkg/errors"
)

// parseRange interprets a single `bytes=<start>-<end>` header against a file
// of the given size. A missing end means "to the last byte"; an end past the
// file is clamped. Anything malformed, or start > end, or start past the file,
// is not satisfiable.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok {
		return 0, 0, unsatisfiable("unsupported range unit")
	}

	startRaw, endRaw, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, unsatisfiable("malformed range")
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startRaw), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, unsatisfiable("range start must be a non-negative integer")
	}

	end = size - 1
	if trimmed := strings.TrimSpace(endRaw); trimmed != "" {
		end, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, 0, unsatisfiable("range end must be an integer")
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start > end || start >= size {
		return 0, 0, unsatisfiable("requested range is outside the file")
	}
	return start, end, nil
}

func unsatisfiable(msg string) error {
	return pkgerrors.New(pkgerrors.CodeRangeNotSatisfied, msg)
}
