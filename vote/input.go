package vote

import (
	"strconv"
	"strings"
)

// Input is a validated create-vote request. The raw value string is
// parsed strictly; anything that does not parse as a non-negative
// base-10 integer is rejected instead of being silently replaced.
type Input struct {
	title       string
	value       uint64
	description string
	category    string
}

func NewInput(title, rawValue, description, category string) (Input, error) {
	title = strings.TrimSpace(title)
	if len(title) < 1 {
		return Input{}, EmptyTitleError
	}

	value, err := strconv.ParseUint(strings.TrimSpace(rawValue), 10, 64)
	if err != nil {
		return Input{}, InvalidVoteValueError.SetMessage(
			"vote value is not a non-negative integer; value=%q", rawValue,
		)
	}

	if len(category) < 1 {
		category = DefaultCategory
	}

	return Input{
		title:       title,
		value:       value,
		description: description,
		category:    category,
	}, nil
}

func (in Input) Title() string {
	return in.title
}

func (in Input) Value() uint64 {
	return in.value
}

func (in Input) Description() string {
	return in.description
}

func (in Input) Category() string {
	return in.category
}
