package holdem

import "errors"

// Options configures a hand of hold'em
type Options struct {
	SmallBlind int
	BigBlind   int
}

// DefaultOptions returns a $1/$2 game
func DefaultOptions() Options {
	return Options{
		SmallBlind: 1,
		BigBlind:   2,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be greater than zero")
	}

	if opts.SmallBlind > opts.BigBlind {
		return errors.New("the small blind cannot exceed the big blind")
	}

	return nil
}
