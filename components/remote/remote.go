// Package remote lets an operator drive the robot over HTTP.
package remote

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/perchess/quadruped"
	"github.com/perchess/quadruped/math3d"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "remote",
})

// Motors is the part of the legs which the remote can power up and down.
type Motors interface {
	Start() error
	Halt() error
}

// Remote holds the latest intent sent by the operator, and hands it to the
// other components at the start of every tick.
type Remote struct {
	motors Motors
	intent atomic.Pointer[quadruped.Intent]
	router chi.Router
}

type rotation struct {
	Rotation float64 `json:"rotation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(m Motors) *Remote {
	r := &Remote{
		motors: m,
	}

	r.intent.Store(&quadruped.Intent{})

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logRequests)

	router.Get("/intent", r.getIntent)
	router.Put("/intent", r.putIntent)
	router.Put("/intent/direction", r.putDirection)
	router.Put("/intent/rotation", r.putRotation)

	router.Post("/start", r.start)
	router.Post("/disable", r.disable)

	r.router = router
	return r
}

// Handler returns the HTTP handler which serves the remote.
func (r *Remote) Handler() http.Handler {
	return r.router
}

// Intent returns the latest intent.
func (r *Remote) Intent() quadruped.Intent {
	return *r.intent.Load()
}

// SetIntent replaces the intent.
func (r *Remote) SetIntent(i quadruped.Intent) {
	r.intent.Store(&i)
}

// update changes the intent with f, without losing concurrent updates.
func (r *Remote) update(f func(*quadruped.Intent)) quadruped.Intent {
	for {
		old := r.intent.Load()
		next := *old
		f(&next)

		if r.intent.CompareAndSwap(old, &next) {
			return next
		}
	}
}

func (r *Remote) Boot() error {
	return nil
}

func (r *Remote) Tick(now time.Time, state *quadruped.State) error {
	state.Intent = r.Intent()
	return nil
}

func (r *Remote) getIntent(w http.ResponseWriter, req *http.Request) {
	render.JSON(w, req, r.Intent())
}

func (r *Remote) putIntent(w http.ResponseWriter, req *http.Request) {
	var i quadruped.Intent
	if err := render.DecodeJSON(req.Body, &i); err != nil {
		renderError(w, req, http.StatusBadRequest, err)
		return
	}

	r.SetIntent(i)
	log.Debugf("intent=%s", i)
	render.JSON(w, req, i)
}

func (r *Remote) putDirection(w http.ResponseWriter, req *http.Request) {
	var dir math3d.Vector2
	if err := render.DecodeJSON(req.Body, &dir); err != nil {
		renderError(w, req, http.StatusBadRequest, err)
		return
	}

	i := r.update(func(i *quadruped.Intent) {
		i.Direction = dir
	})

	render.JSON(w, req, i)
}

func (r *Remote) putRotation(w http.ResponseWriter, req *http.Request) {
	var rot rotation
	if err := render.DecodeJSON(req.Body, &rot); err != nil {
		renderError(w, req, http.StatusBadRequest, err)
		return
	}

	i := r.update(func(i *quadruped.Intent) {
		i.Rotation = rot.Rotation
	})

	render.JSON(w, req, i)
}

func (r *Remote) start(w http.ResponseWriter, req *http.Request) {
	log.Infof("starting motors")

	if err := r.motors.Start(); err != nil {
		renderError(w, req, http.StatusInternalServerError, err)
		return
	}

	render.NoContent(w, req)
}

// disable turns the motors off right away, without waiting for a tick.
func (r *Remote) disable(w http.ResponseWriter, req *http.Request) {
	log.Infof("disabling motors")

	if err := r.motors.Halt(); err != nil {
		renderError(w, req, http.StatusInternalServerError, err)
		return
	}

	render.NoContent(w, req)
}

func renderError(w http.ResponseWriter, req *http.Request, status int, err error) {
	log.Warnf("%s %s: %s", req.Method, req.URL.Path, err)
	render.Status(req, status)
	render.JSON(w, req, errorResponse{Error: err.Error()})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		log.WithFields(logrus.Fields{
			"method":   req.Method,
			"path":     req.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	})
}
