package model

import "time"

// RawRecord is a product listing as extracted by a source fetcher, before
// price normalization or validation.
type RawRecord struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Link  string `json:"link"`
}

// Record is a normalized product listing from a single source. Immutable
// after construction; PriceValue is derived from RawPrice, never supplied
// by the source.
type Record struct {
	Name       string `json:"name"`
	RawPrice   string `json:"raw_price"`
	Link       string `json:"link"`
	PriceValue int    `json:"price_value"`
}

// ErrorKind classifies a per-source fetch failure.
type ErrorKind string

const (
	ErrorNone      ErrorKind = ""
	ErrorTransient ErrorKind = "transient" // timeout, transport failure, 429/5xx
	ErrorPermanent ErrorKind = "permanent" // malformed or unsupported response
)

// SourceResult is the outcome of one source's fetch pipeline for one query.
// Err is nil on success; a failed source still yields a SourceResult with
// empty Records so callers can always account for every configured source.
type SourceResult struct {
	Source    string
	Records   []Record
	FetchedAt time.Time
	Cached    bool
	Err       error
	ErrKind   ErrorKind
}

// Cheaper labels which side of a Comparison has the lower price.
type Cheaper string

const (
	CheaperLeft  Cheaper = "left"
	CheaperRight Cheaper = "right"
	CheaperSame  Cheaper = "same"
)

// Comparison pairs a left-side record with its best-matching right-side
// record. Difference is left minus right, so a positive value means the
// right side is cheaper.
type Comparison struct {
	Left       Record  `json:"left"`
	Right      Record  `json:"right"`
	Score      int     `json:"score"`
	Difference int     `json:"difference"`
	Cheaper    Cheaper `json:"cheaper"`
}
