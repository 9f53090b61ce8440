package domain

// ReplayCommand is one command fed to the state machine, stamped with the
// number of Step calls that preceded it.
type ReplayCommand struct {
	Step    uint32  `json:"step"`
	Command Command `json:"command"`
}

// ReplaySession is enough to reproduce a run: the seed fixes the dungeon and
// every roll, the commands fix the player's choices.
type ReplaySession struct {
	Seed      int64           `json:"seed"`
	Timestamp int64           `json:"timestamp"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Commands  []ReplayCommand `json:"commands"`
}
