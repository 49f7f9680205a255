package modules

// playbackPhase 播放任务所处的阶段
type playbackPhase int

const (
	phaseInitialDelay playbackPhase = iota // 播放前的等待
	phaseFlashOn                           // 目标正在闪烁
	phaseGap                               // 闪烁结束后的间隔
	phaseDone                              // 播放结束
)

// cueKind 播放过程中产生的视觉事件类型
type cueKind int

const (
	cueFlash   cueKind = iota // 目标切换为闪烁颜色
	cueRestore                // 目标恢复默认颜色
)

// playbackCue 一次视觉事件
type playbackCue struct {
	kind     cueKind
	target   int // 目标索引
	position int // 在序列中的位置
}

// playbackTask 序列播放任务
// 显式状态机，由宿主每帧调用 advance 推进，不依赖协程或定时器。
// token 用于判断任务是否已被新的播放或完成状态取代。
type playbackTask struct {
	token    uint64
	sequence []int

	initialDelay  float64
	flashDuration float64
	gap           float64

	phase    playbackPhase
	position int     // 当前序列位置
	elapsed  float64 // 当前阶段已经过的时间（秒）
	lit      int     // 正在闪烁的目标索引，没有时为 -1
}

func newPlaybackTask(token uint64, sequence []int, initialDelay, flashDuration, gap float64) *playbackTask {
	return &playbackTask{
		token:         token,
		sequence:      sequence,
		initialDelay:  initialDelay,
		flashDuration: flashDuration,
		gap:           gap,
		phase:         phaseInitialDelay,
		lit:           -1,
	}
}

// advance 推进 dt 秒并按时间顺序发出期间产生的视觉事件
// emit 返回 false 表示任务已被取消，advance 立即停止且不再修改任何状态。
// 一帧内可以跨越多个阶段（dt 较大或延迟为 0 时），但始终保证
// 第 i 个目标的恢复先于第 i+1 个目标的闪烁。
//
// 返回：
//   - bool: 播放是否已经结束
func (p *playbackTask) advance(dt float64, emit func(playbackCue) bool) bool {
	p.elapsed += dt

	for {
		switch p.phase {
		case phaseInitialDelay:
			if p.elapsed < p.initialDelay {
				return false
			}
			p.elapsed -= p.initialDelay
			if len(p.sequence) == 0 {
				p.phase = phaseDone
				return true
			}
			if !p.beginFlash(emit) {
				return false
			}

		case phaseFlashOn:
			if p.elapsed < p.flashDuration {
				return false
			}
			cue := playbackCue{kind: cueRestore, target: p.lit, position: p.position}
			if !emit(cue) {
				return false
			}
			p.elapsed -= p.flashDuration
			p.lit = -1
			p.phase = phaseGap

		case phaseGap:
			if p.elapsed < p.gap {
				return false
			}
			p.elapsed -= p.gap
			p.position++
			if p.position >= len(p.sequence) {
				p.phase = phaseDone
				return true
			}
			if !p.beginFlash(emit) {
				return false
			}

		default:
			return true
		}
	}
}

func (p *playbackTask) beginFlash(emit func(playbackCue) bool) bool {
	target := p.sequence[p.position]
	if !emit(playbackCue{kind: cueFlash, target: target, position: p.position}) {
		return false
	}
	p.lit = target
	p.phase = phaseFlashOn
	return true
}

// litTarget 返回当前处于闪烁状态的目标，没有时返回 -1
func (p *playbackTask) litTarget() int {
	return p.lit
}
