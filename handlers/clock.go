package handlers

import "time"

// timeNow is swapped out in tests to pin the hour-gated flows (accept
// window, settlement window, period boundaries) to a fixed clock.
var timeNow = time.Now
