package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats собирает диагностику процесса для периодического лога
type ProcessStats struct {
	StartTime time.Time
}

// NewProcessStats создает новый экземпляр с текущим временем старта
func NewProcessStats() *ProcessStats {
	return &ProcessStats{
		StartTime: time.Now(),
	}
}

// Snapshot — снимок диагностики
type Snapshot struct {
	Uptime     string
	Memory     string
	CPUPercent float64
	Goroutines int
}

// String форматирует снимок для лога
func (s Snapshot) String() string {
	return fmt.Sprintf("uptime=%s mem=%s cpu=%.1f%% goroutines=%d",
		s.Uptime, s.Memory, s.CPUPercent, s.Goroutines)
}

// Uptime возвращает время работы процесса
func (ps *ProcessStats) Uptime() string {
	return FormatUptime(time.Since(ps.StartTime))
}

// FormatUptime форматирует длительность как "1д 2ч 3м 4с", опуская старшие нули
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// MemoryUsage возвращает занятую кучу в человекочитаемом виде
func (ps *ProcessStats) MemoryUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return humanize.Bytes(m.Alloc)
}

// CPUUsage возвращает использование CPU процессом в процентах
func (ps *ProcessStats) CPUUsage() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, берём системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}
	return cpuPercent, nil
}

// Snapshot собирает все показатели; ошибка CPU даёт нулевой процент
func (ps *ProcessStats) Snapshot() Snapshot {
	cpuPercent, _ := ps.CPUUsage()
	return Snapshot{
		Uptime:     ps.Uptime(),
		Memory:     ps.MemoryUsage(),
		CPUPercent: cpuPercent,
		Goroutines: runtime.NumGoroutine(),
	}
}
