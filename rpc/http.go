package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"

	"github.com/CrymeFTW/1v1-games/network"
	"github.com/CrymeFTW/1v1-games/session"
	"github.com/dimfeld/httptreemux"
	"github.com/gorilla/handlers"
	"github.com/unrolled/render"
)

type R struct {
	Session *session.Session
	Peer    *network.Peer
}

type Call struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

func NewRouter(s *session.Session, peer *network.Peer) *httptreemux.TreeMux {
	router, impl := httptreemux.New(), &R{Session: s, Peer: peer}
	router.POST("/", impl.handle)
	registerHanders(router)
	return router
}

func registerHanders(router *httptreemux.TreeMux) {
	router.MethodNotAllowedHandler = func(w http.ResponseWriter, r *http.Request, _ map[string]httptreemux.HandlerFunc) {
		render.New().JSON(w, http.StatusNotFound, map[string]interface{}{})
	}
	router.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
		render.New().JSON(w, http.StatusNotFound, map[string]interface{}{})
	}
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, rcv interface{}) {
		buf := make([]byte, 1<<16)
		buf = buf[:runtime.Stack(buf, false)]
		err := fmt.Errorf("%v\n%s", rcv, buf)
		render.New().JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
	}
}

func (impl *R) handle(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var call Call
	d := json.NewDecoder(r.Body)
	d.UseNumber()
	if err := d.Decode(&call); err != nil {
		render.New().JSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		return
	}
	switch call.Method {
	case "getinfo":
		info, err := getInfo(impl.Session, impl.Peer)
		if err != nil {
			render.New().JSON(w, http.StatusOK, map[string]interface{}{"error": err.Error()})
		} else {
			render.New().JSON(w, http.StatusOK, info)
		}
	case "getboard":
		board, err := getBoard(impl.Session)
		if err != nil {
			render.New().JSON(w, http.StatusOK, map[string]interface{}{"error": err.Error()})
		} else {
			render.New().JSON(w, http.StatusOK, board)
		}
	default:
		render.New().JSON(w, http.StatusOK, map[string]interface{}{"error": "invalid method"})
	}
}

func handleCORS(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Access-Control-Allow-Headers", "Content-Type,Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,GET,POST,DELETE")
		w.Header().Set("Access-Control-Max-Age", "600")
		if r.Method == "OPTIONS" {
			render.New().JSON(w, http.StatusOK, map[string]interface{}{})
		} else {
			handler.ServeHTTP(w, r)
		}
	})
}

// StartHTTP exposes a read only status endpoint so a browser or script on
// the LAN can observe the match.
func StartHTTP(s *session.Session, peer *network.Peer, port int) error {
	router := NewRouter(s, peer)
	handler := handleCORS(router)
	handler = handlers.ProxyHeaders(handler)

	server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler}
	return server.ListenAndServe()
}
