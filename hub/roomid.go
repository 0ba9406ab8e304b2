/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import "crypto/rand"

const roomIDLength = 12

// randomRoomID returns a crypto-random alphanumeric token. Bytes that
// would bias the alphabet are rejected rather than folded.
func randomRoomID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const limit = byte(255 - (256 % len(letters)))

	out := make([]byte, 0, roomIDLength)
	buf := make([]byte, roomIDLength*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b > limit {
				continue
			}

			out = append(out, letters[int(b)%len(letters)])
			if len(out) == roomIDLength {
				return string(out)
			}
		}
	}
}
