package session

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Run names give humans something better than a UUID to talk about. The name
// is derived deterministically from the unique id, so a resumed run keeps the
// name of the run it continues.

var runNameAdjectives = []string{
	"agitated", "astonishing", "berserk", "boring", "clever", "condescending",
	"curious", "determined", "dreamy", "eccentric", "elated", "fervent",
	"focused", "furious", "gigantic", "grave", "happy", "hopeful", "infallible",
	"jolly", "lethal", "mighty", "modest", "nasty", "nostalgic", "peaceful",
	"pensive", "reverent", "serene", "silly", "small", "stupefied", "suspicious",
	"tiny", "trusting", "voluminous", "wise", "zen",
}

var runNameSurnames = []string{
	"archimedes", "babbage", "bohr", "borg", "curie", "darwin", "descartes",
	"dijkstra", "einstein", "euclid", "euler", "fermat", "feynman", "franklin",
	"galileo", "gauss", "goodall", "hawking", "heisenberg", "hodgkin", "hopper",
	"hypatia", "kay", "kepler", "knuth", "lamarr", "leavitt", "linnaeus",
	"lovelace", "mandelbrot", "mcclintock", "meitner", "mendel", "mirzakhani",
	"newton", "noether", "pasteur", "payne", "planck", "poincare", "ritchie",
	"shannon", "torvalds", "turing", "wilson", "wozniak",
}

// RunNameFor derives the adjective_surname run name for a unique run id.
func RunNameFor(id uuid.UUID) string {
	bytes := id[:]
	adj := binary.BigEndian.Uint32(bytes[0:4]) % uint32(len(runNameAdjectives))
	sur := binary.BigEndian.Uint32(bytes[4:8]) % uint32(len(runNameSurnames))
	return fmt.Sprintf("%s_%s", runNameAdjectives[adj], runNameSurnames[sur])
}
