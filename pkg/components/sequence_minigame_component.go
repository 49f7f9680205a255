package components

// SequenceGameStatus 序列记忆小游戏的状态
type SequenceGameStatus int

const (
	// SequenceNotStarted 尚未开始
	SequenceNotStarted SequenceGameStatus = iota
	// SequencePlaying 正在播放序列，屏蔽玩家输入
	SequencePlaying
	// SequenceAwaitingInput 等待玩家复现序列
	SequenceAwaitingInput
	// SequenceCompleted 已完成（终态，不可重新打开）
	SequenceCompleted
)

// String 返回状态名称，用于日志和调试显示
func (s SequenceGameStatus) String() string {
	switch s {
	case SequenceNotStarted:
		return "NotStarted"
	case SequencePlaying:
		return "Playing"
	case SequenceAwaitingInput:
		return "AwaitingInput"
	case SequenceCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// SequenceMinigameComponent 序列记忆小游戏的状态数据
// 由 SequenceMinigameModule 独占写入，渲染系统只读
type SequenceMinigameComponent struct {
	// ID 小游戏标识，完成时上报给小游戏管理器
	ID string

	// Status 当前状态
	Status SequenceGameStatus

	// Sequence 本轮需要复现的目标索引序列，生成后不再修改
	Sequence []int

	// Progress 已正确复现的步数 [0, len(Sequence)]
	Progress int

	// PlaybackIndex 当前正在闪烁的序列位置，未播放时为 -1
	PlaybackIndex int

	// Visible 小游戏面板是否显示
	Visible bool
}
