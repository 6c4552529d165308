package domain

// DropKind はドロップの種別です。
type DropKind int

const (
	DropItem DropKind = iota
	DropEquipment
)

func (k DropKind) String() string {
	if k == DropEquipment {
		return "equipment"
	}
	return "item"
}

// Drop is one entry of a monster's drop table. Each entry rolls
// independently against Probability on every kill.
type Drop struct {
	RefID       string
	Kind        DropKind
	Qty         int
	Probability float64
}

// Monster はカタログ上のモンスター定義です。
type Monster struct {
	ID    string
	Name  string
	Level int

	Combat CombatantState

	Experience int64
	Gold       int64
	Token      int64

	Drops []Drop
}

// Clone returns a deep copy so callers can mutate combat state freely.
func (m Monster) Clone() Monster {
	cp := m
	cp.Drops = append([]Drop(nil), m.Drops...)
	return cp
}

// AreaKind は戦闘エリアの種別です。
type AreaKind int

const (
	AreaDomain AreaKind = iota
	AreaDungeon
)

func (k AreaKind) String() string {
	if k == AreaDungeon {
		return "dungeon"
	}
	return "domain"
}

// CombatArea identifies where a battle chain takes place.
type CombatArea struct {
	Kind     AreaKind
	ID       string
	MinLevel int
	MaxLevel int
}

// SpawnEntry is one weighted entry of an open-area spawn pool.
type SpawnEntry struct {
	MonsterID string
	Weight    float64
}

// DomainArea はランダム遭遇のオープンエリア定義です。
type DomainArea struct {
	ID       string
	Name     string
	MinLevel int
	MaxLevel int
	Pool     []SpawnEntry
}

// DungeonArea は階層制ダンジョンの定義です。Sequence は1階層分の
// 出現順で、階層が上がるたびに GrowthFactor で強化されます。
type DungeonArea struct {
	ID            string
	Name          string
	RequiredLevel int
	GrowthFactor  float64
	Sequence      []string
}
