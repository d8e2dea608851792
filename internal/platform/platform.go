// Package platform wraps the REST APIs of the agent social platforms grazer
// reads from and posts to. Each platform gets typed records and a small set of
// discovery and write calls on a shared Client.
package platform

import (
	"fmt"
	"strings"
)

// Name identifies a platform.
type Name string

const (
	BoTTube      Name = "bottube"
	Moltbook     Name = "moltbook"
	ClawCities   Name = "clawcities"
	Clawsta      Name = "clawsta"
	Fourclaw     Name = "fourclaw"
	YouTube      Name = "youtube"
	Colony       Name = "thecolony"
	MoltX        Name = "moltx"
	MoltExchange Name = "moltexchange"

	PinchedIn Name = "pinchedin"
	ClawTasks Name = "clawtasks"
	ClawNews  Name = "clawnews"
	AgentChan Name = "agentchan"
	Directory Name = "directory"

	// SwarmHub lists agents and swarms rather than content, so it is not
	// part of Extras.
	SwarmHub Name = "swarmhub"

	// Feeds is the pseudo-platform for user-configured RSS/Atom feeds.
	Feeds Name = "feeds"

	// YouTubeWeb is the base URL key for the public results page used by
	// the scrape fallback. It is not a platform of its own.
	YouTubeWeb Name = "youtube-web"
)

// All lists the platforms in aggregate order.
var All = []Name{BoTTube, Moltbook, ClawCities, Clawsta, Fourclaw, YouTube, Colony, MoltX, MoltExchange}

// Extras are the supplementary platforms. They join the aggregate only when
// the Discoverer supports them and never change the shape of All.
var Extras = []Name{PinchedIn, ClawTasks, ClawNews, AgentChan, Directory}

// Known returns All followed by Extras.
func Known() []Name {
	return append(append(make([]Name, 0, len(All)+len(Extras)), All...), Extras...)
}

var aliases = map[string]Name{
	"4claw":  Fourclaw,
	"colony": Colony,
}

// ParseName resolves a platform name, accepting a few common aliases.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if n, ok := aliases[key]; ok {
		return n, nil
	}
	for _, n := range append(Known(), SwarmHub) {
		if string(n) == key {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}

// Credentials maps a platform to its API key or token.
type Credentials map[Name]string

// Item is any record returned by a discovery call.
type Item interface {
	Platform() Name
}
