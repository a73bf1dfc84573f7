// Package lookup resolves image references given on the command line.
package lookup

import (
	"strconv"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/images"
)

// Image resolves ref to an identifier of the fixed list. A reference is,
// in order of precedence, a full identifier, a 1-based list position, or a
// display name that matches exactly one image.
func Image(r *imagerater.Rater, ref string) (string, error) {
	if r.IndexOf(ref) >= 0 {
		return ref, nil
	}

	if n, err := strconv.Atoi(ref); err == nil {
		id, err := r.Image(n - 1)
		if err != nil {
			return "", &errors.NotFoundError{Resource: "image", ID: ref}
		}
		return id, nil
	}

	var match string
	for _, id := range r.Images() {
		if images.DisplayName(id) != ref {
			continue
		}
		if match != "" {
			return "", &errors.ValidationError{
				Field:   "image",
				Value:   ref,
				Message: "name matches more than one image, use the full identifier or position",
			}
		}
		match = id
	}
	if match == "" {
		return "", &errors.NotFoundError{Resource: "image", ID: ref}
	}
	return match, nil
}
