// Package monitoring turns a running simulation into a small read-only web
// server: progress, current counters, and process resource usage.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/nocsim/network"
)

// A StatsSnapshotter provides the monitor with a point-in-time view of the
// traffic counters.
type StatsSnapshotter interface {
	Snapshot() any
}

// Monitor exposes a running simulation over HTTP.
type Monitor struct {
	driver     *network.Driver
	stats      StatsSnapshotter
	portNumber int

	mu  sync.Mutex
	url string
}

// NewMonitor creates a Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port the monitor listens on. Ports below 1000 are
// replaced by a random free port.
func (m *Monitor) WithPortNumber(port int) *Monitor {
	if port > 0 && port < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port %d is not allowed for monitoring; using a random port.\n",
			port)
		port = 0
	}

	m.portNumber = port

	return m
}

// RegisterDriver attaches the cycle driver whose progress is reported.
func (m *Monitor) RegisterDriver(d *network.Driver) {
	m.driver = d
}

// RegisterStats attaches the counter snapshotter.
func (m *Monitor) RegisterStats(s StatsSnapshotter) {
	m.stats = s
}

// StartServer starts serving in the background and returns the URL.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/stats", m.statsSnapshot)
	r.HandleFunc("/api/resources", m.resources)

	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	m.mu.Lock()
	m.url = fmt.Sprintf("http://localhost:%d", port)
	m.mu.Unlock()

	fmt.Fprintf(os.Stderr, "Monitoring simulation at %s\n", m.url)

	go func() {
		dieOnErr(http.Serve(listener, r))
	}()

	return m.url
}

// OpenDashboard opens the monitor in the user's browser.
func (m *Monitor) OpenDashboard() {
	m.mu.Lock()
	url := m.url
	m.mu.Unlock()

	if url == "" {
		return
	}

	if err := browser.OpenURL(url + "/api/progress"); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
	}
}

type progressRsp struct {
	CurrentCycle uint64 `json:"current_cycle"`
	Horizon      uint64 `json:"horizon"`
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	rsp := progressRsp{
		CurrentCycle: uint64(m.driver.CurrentCycle()),
		Horizon:      uint64(m.driver.Horizon()),
	}

	writeJSON(w, rsp)
}

func (m *Monitor) statsSnapshot(w http.ResponseWriter, _ *http.Request) {
	if m.stats == nil {
		http.Error(w, "no stats registered", http.StatusNotFound)
		return
	}

	writeJSON(w, m.stats.Snapshot())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) resources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
