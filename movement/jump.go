package movement

import (
	"math"

	"github.com/milk9111/wallrun/common"
)

// jumpState buffers jump presses and tracks coyote time and the jump cut.
type jumpState struct {
	buffer float64
	coyote float64
	cut    bool
	held   bool
}

func (j *jumpState) advance(dt float64) {
	j.buffer = common.Countdown(j.buffer, dt)
	j.coyote = common.Countdown(j.coyote, dt)
}

// press registers a rising edge of the jump button.
func (j *jumpState) press(in Input, t Tuning) {
	if in.Jump && !j.held {
		j.buffer = t.JumpBufferTime
	}
	j.held = in.Jump
}

func (j *jumpState) buffered() bool {
	return j.buffer > 0
}

func (j *jumpState) consume() {
	j.buffer = 0
	j.coyote = 0
	j.cut = true
}

func jumpVelocity(t Tuning) float64 {
	return math.Sqrt(2 * t.Gravity * t.JumpHeight)
}
