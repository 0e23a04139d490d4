package store

// Seed returns the greetings every fresh store starts with.
func Seed() map[int]string {
	return map[int]string{
		1: "Hello, World!",
		2: "Howdy, Partner!",
		3: "Greetings, Earthling!",
		4: "Salutations and Respect!",
		5: "Hey there, Universe!",
	}
}
