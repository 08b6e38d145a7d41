package docker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/stevedore/internal/domain"
)

// fakeEngine records requests hitting a stub Docker API.
type fakeEngine struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeEngine) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeEngine) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func newTestRuntime(t *testing.T, handler http.HandlerFunc) *Runtime {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	host := strings.TrimPrefix(server.URL, "http://")
	cli, err := client.NewClientWithOpts(client.WithHost("tcp://"+host), client.WithVersion("1.41"), client.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	return NewRuntimeWithClient(cli)
}

func inspectJSON(running bool) string {
	status := "exited"
	if running {
		status = "running"
	}
	return `{
		"Id": "abc123",
		"Name": "/demo-web-1",
		"State": {"Status": "` + status + `", "Running": ` + strconv.FormatBool(running) + `}
	}`
}

func TestRuntime_ListContainers(t *testing.T) {
	engine := &fakeEngine{}
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		engine.record(r)
		assert.Equal(t, "/v1.41/containers/json", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("all"))
		assert.Contains(t, r.URL.Query().Get("filters"), "com.docker.compose.project=demo")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"Id": "abc123",
			"Names": ["/demo-web-1"],
			"Image": "nginx:latest",
			"State": "running",
			"Status": "Up 2 hours",
			"Ports": [{"PrivatePort": 80, "PublicPort": 8080, "Type": "tcp"}],
			"Labels": {"com.docker.compose.project": "demo", "com.docker.compose.service": "web"}
		}]`))
	})

	containers, err := runtime.ListContainers(context.Background(), domain.ContainerFilter{Project: "demo"})
	require.NoError(t, err)
	require.Len(t, containers, 1)

	c := containers[0]
	assert.Equal(t, "abc123", c.ID)
	assert.Equal(t, "demo-web-1", c.Name)
	assert.Equal(t, domain.ContainerRunning, c.State)
	assert.Equal(t, "Up 2 hours", c.Status)
	assert.Equal(t, []domain.PortMapping{{Private: 80, Public: 8080, Type: "tcp"}}, c.Ports)
	assert.Equal(t, "web", c.Service())
}

func TestRuntime_ListContainers_EngineDown(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "boom"}`))
	})

	_, err := runtime.ListContainers(context.Background(), domain.ContainerFilter{})
	assert.ErrorIs(t, err, domain.ErrEngine)
}

func TestRuntime_InspectContainer(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.41/containers/abc123/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Id": "abc123",
			"Created": "2024-05-01T10:00:00.123456789Z",
			"Name": "/demo-web-1",
			"Image": "sha256:deadbeef",
			"RestartCount": 2,
			"Platform": "linux",
			"State": {"Status": "running", "Running": true, "Pid": 42, "ExitCode": 0, "StartedAt": "2024-05-01T10:00:01Z", "FinishedAt": "0001-01-01T00:00:00Z"},
			"Config": {"Image": "nginx:latest", "Env": ["A=1"], "Labels": {"com.docker.compose.service": "web"}},
			"Mounts": [{"Type": "bind", "Source": "/srv/html", "Destination": "/usr/share/nginx/html", "Mode": "ro", "RW": false}],
			"HostConfig": {
				"CpuShares": 512, "Memory": 268435456, "NanoCpus": 500000000,
				"NetworkMode": "demo_default",
				"RestartPolicy": {"Name": "always"},
				"PortBindings": {"80/tcp": [{"HostIp": "0.0.0.0", "HostPort": "8080"}]}
			},
			"NetworkSettings": {
				"Ports": {"80/tcp": [{"HostIp": "0.0.0.0", "HostPort": "8080"}], "443/tcp": null},
				"Networks": {"demo_default": {"NetworkID": "net1", "EndpointID": "ep1", "Gateway": "172.20.0.1", "IPAddress": "172.20.0.2", "IPPrefixLen": 16, "MacAddress": "02:42:ac:14:00:02"}}
			}
		}`))
	})

	d, err := runtime.InspectContainer(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "demo-web-1", d.Name)
	assert.Equal(t, "nginx:latest", d.Image)
	assert.Equal(t, 2024, d.Created.Year())
	assert.Equal(t, domain.ContainerRunning, d.State)
	assert.True(t, d.StateDetail.Running)
	assert.Equal(t, 42, d.StateDetail.Pid)
	assert.Equal(t, []string{"A=1"}, d.Env)
	assert.Equal(t, "always", d.RestartPolicy)
	assert.Equal(t, 2, d.RestartCount)
	assert.Equal(t, "linux", d.Platform)
	require.Len(t, d.Mounts, 1)
	assert.Equal(t, "bind", d.Mounts[0].Type)
	assert.False(t, d.Mounts[0].RW)
	assert.Equal(t, "172.20.0.2", d.Networks["demo_default"].IPAddress)
	assert.Equal(t, 16, d.Networks["demo_default"].IPPrefixLen)
	assert.Equal(t, int64(512), d.HostConfig.CPUShares)
	assert.Equal(t, int64(500000000), d.HostConfig.NanoCPUs)
	assert.Equal(t, "demo_default", d.HostConfig.NetworkMode)
	assert.Equal(t, []domain.PortBinding{{HostIP: "0.0.0.0", HostPort: "8080"}}, d.HostConfig.PortBindings["80/tcp"])
	assert.Equal(t, []domain.PortMapping{
		{Private: 80, Public: 8080, Type: "tcp"},
		{Private: 443, Type: "tcp"},
	}, d.Ports)
}

func TestRuntime_InspectContainer_NotFound(t *testing.T) {
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "No such container: nope"}`))
	})

	_, err := runtime.InspectContainer(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrContainerNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRuntime_StartContainer(t *testing.T) {
	tests := []struct {
		name        string
		running     bool
		startStatus int
		wantErr     error
		wantStart   bool
	}{
		{name: "starts stopped container", running: false, startStatus: http.StatusNoContent, wantStart: true},
		{name: "already running", running: true, wantErr: domain.ErrContainerRunning},
		{name: "engine failure", running: false, startStatus: http.StatusInternalServerError, wantErr: domain.ErrEngine, wantStart: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
				engine.record(r)
				switch r.URL.Path {
				case "/v1.41/containers/abc123/json":
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(inspectJSON(tt.running)))
				case "/v1.41/containers/abc123/start":
					w.WriteHeader(tt.startStatus)
					if tt.startStatus >= 400 {
						_, _ = w.Write([]byte(`{"message": "failed"}`))
					}
				default:
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
			})

			err := runtime.StartContainer(context.Background(), "abc123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStart, engine.called("POST /v1.41/containers/abc123/start"))
		})
	}
}

func TestRuntime_StopContainer(t *testing.T) {
	tests := []struct {
		name     string
		running  bool
		wantErr  error
		wantStop bool
	}{
		{name: "stops running container", running: true, wantStop: true},
		{name: "already stopped", running: false, wantErr: domain.ErrContainerNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
				engine.record(r)
				switch r.URL.Path {
				case "/v1.41/containers/abc123/json":
					w.Header().Set("Content-Type", "application/json")
					_, _ = w.Write([]byte(inspectJSON(tt.running)))
				case "/v1.41/containers/abc123/stop":
					assert.Equal(t, "30", r.URL.Query().Get("t"))
					w.WriteHeader(http.StatusNoContent)
				}
			})

			err := runtime.StopContainer(context.Background(), "abc123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrConflict)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStop, engine.called("POST /v1.41/containers/abc123/stop"))
		})
	}
}

func TestRuntime_RemoveContainer(t *testing.T) {
	engine := &fakeEngine{}
	runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		engine.record(r)
		switch {
		case r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(inspectJSON(true)))
		case r.Method == http.MethodDelete:
			assert.Equal(t, "1", r.URL.Query().Get("force"))
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	err := runtime.RemoveContainer(ctx, "abc123", false)
	assert.ErrorIs(t, err, domain.ErrContainerRunning)
	assert.False(t, engine.called("DELETE /v1.41/containers/abc123"))

	require.NoError(t, runtime.RemoveContainer(ctx, "abc123", true))
	assert.True(t, engine.called("DELETE /v1.41/containers/abc123"))
}

func TestRuntime_CheckAPIVersion(t *testing.T) {
	tests := []struct {
		name       string
		apiVersion string
		minVersion string
		wantErr    bool
	}{
		{"newer engine", "1.47", "1.41", false},
		{"equal", "1.41", "1.41", false},
		{"older engine", "1.40", "1.41", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/_ping", r.URL.Path)
				w.Header().Set("API-Version", tt.apiVersion)
				w.WriteHeader(http.StatusOK)
			})

			err := runtime.CheckAPIVersion(context.Background(), tt.minVersion)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
