package internal

import "time"

func defineGlobals(e *env) {
	defineClock(e)
}

// defineClock is the only native function, seconds since the epoch
func defineClock(e *env) {
	var clockFn nativeFn
	clockFn.callFn = func(arguments []interface{}) (interface{}, error) {
		return float64(time.Now().UnixNano()) / float64(time.Second), nil
	}

	e.define("clock", &clockFn)
}
