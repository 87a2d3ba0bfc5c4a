package util

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"Sneaky", "Fuzzy", "Explosive", "Lucky", "Grumpy", "Dapper", "Sleepy",
	"Bouncy", "Crafty", "Daring", "Nimble", "Jolly", "Spicy", "Cosmic",
}

var critters = []string{
	"Kitten", "Tomcat", "Ocelot", "Lynx", "Panther", "Tabby", "Cheetah",
	"Bobcat", "Cougar", "Leopard", "Tiger", "Jaguar", "Caracal", "Serval",
}

// GetRandomName returns a random display name for a player who didn't
// configure one
func GetRandomName() string {
	return fmt.Sprintf("%s %s", adjectives[rand.Intn(len(adjectives))], critters[rand.Intn(len(critters))])
}
