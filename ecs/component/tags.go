package component

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// PostProcessVolume marks the entity whose PostProcessProfile is the shared
// screen profile.
type PostProcessVolume struct{}

var PostProcessVolumeComponent = NewComponent[PostProcessVolume]()

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type BrotherTag struct{}

var BrotherTagComponent = NewComponent[BrotherTag]()

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]()

type DiceTag struct{}

var DiceTagComponent = NewComponent[DiceTag]()
