package textdecoder

// Result is how a decode call without replacement ended.
type Result int

const (
	ResultComplete       Result = 0 // all input consumed, including any end-of-stream flush
	ResultInputExhausted Result = 1 // a partial trailing sequence was left unread, more input may complete it
	ResultMalformed      Result = 2 // input holds a sequence the encoding cannot decode
)

func (r Result) String() string {
	switch r {
	case ResultComplete:
		return "complete"
	case ResultInputExhausted:
		return "input exhausted"
	case ResultMalformed:
		return "malformed"
	}
	return "unknown"
}
