package fakeapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/wire"
	"listkeeper/internal/observability/logging"
	"listkeeper/internal/observability/metrics"
	"listkeeper/internal/observability/requestid"
	"listkeeper/internal/observability/tracing"
)

// APIPrefix is where the entity routes are mounted.
const APIPrefix = "/api"

type handlers struct {
	store *Store
}

// NewRouter builds the fake entity service.
// Entity routes live under /api; /metrics and /healthz sit at the root.
func NewRouter(store *Store, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{store: store}

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix(APIPrefix).Subrouter()
	api.Use(Recover(logger), requestid.Middleware, tracing.Middleware, metrics.Middleware, Logging(logger))

	api.HandleFunc("/usuarios/", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/", h.createUser).Methods(http.MethodPost)
	api.HandleFunc("/usuarios/{id:[0-9]+}/", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/{id:[0-9]+}/", h.updateUser(false)).Methods(http.MethodPut)
	api.HandleFunc("/usuarios/{id:[0-9]+}/", h.updateUser(true)).Methods(http.MethodPatch)
	api.HandleFunc("/usuarios/{id:[0-9]+}/", h.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/usuarios/{id:[0-9]+}/listas/", h.listListsByUser).Methods(http.MethodGet)
	api.HandleFunc("/usuarios/{id:[0-9]+}/articulos/", h.listArticlesByUser).Methods(http.MethodGet)

	api.HandleFunc("/listas/", h.listLists).Methods(http.MethodGet)
	api.HandleFunc("/listas/", h.createList).Methods(http.MethodPost)
	api.HandleFunc("/listas/{id:[0-9]+}/", h.getList).Methods(http.MethodGet)
	api.HandleFunc("/listas/{id:[0-9]+}/", h.updateList(false)).Methods(http.MethodPut)
	api.HandleFunc("/listas/{id:[0-9]+}/", h.updateList(true)).Methods(http.MethodPatch)
	api.HandleFunc("/listas/{id:[0-9]+}/", h.deleteList).Methods(http.MethodDelete)

	api.HandleFunc("/articulos/", h.listArticles).Methods(http.MethodGet)
	api.HandleFunc("/articulos/", h.createArticle).Methods(http.MethodPost)
	api.HandleFunc("/articulos/{id:[0-9]+}/", h.getArticle).Methods(http.MethodGet)
	api.HandleFunc("/articulos/{id:[0-9]+}/", h.updateArticle(false)).Methods(http.MethodPut)
	api.HandleFunc("/articulos/{id:[0-9]+}/", h.updateArticle(true)).Methods(http.MethodPatch)
	api.HandleFunc("/articulos/{id:[0-9]+}/", h.deleteArticle).Methods(http.MethodDelete)

	return router
}

// pathID extracts {id}. The route pattern guarantees digits; overflow is a 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeNotFound(w)
		return 0, false
	}
	return id, true
}

func mapSlice[E any, D any](in []*E, conv func(*E) D) []D {
	out := make([]D, 0, len(in))
	for _, e := range in {
		out = append(out, conv(e))
	}
	return out
}

// ---------- users ----------

func (h *handlers) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mapSlice(h.store.Users(), wire.FromUser))
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.store.User(id)
	if err != nil {
		writeStoreError(w, "id", err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromUser(u))
}

func validateUser(u *entity.User) fieldErrors {
	fe := fieldErrors{}
	fe.requireName("nombre", u.Name, 100)
	fe.requireName("password", u.Password, 100)
	return fe
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var in wire.UserPatch
	if !decode(w, r, &in) {
		return
	}
	fe := fieldErrors{}
	if in.Nombre == nil {
		fe.add("nombre", "This field is required.")
	}
	if in.Password == nil {
		fe.add("password", "This field is required.")
	}
	if !fe.empty() {
		writeBadRequest(w, fe)
		return
	}
	u := entity.User{Name: *in.Nombre, Password: *in.Password}
	if fe := validateUser(&u); !fe.empty() {
		writeBadRequest(w, fe)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromUser(h.store.CreateUser(u)))
}

func (h *handlers) updateUser(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		current, err := h.store.User(id)
		if err != nil {
			writeStoreError(w, "id", err)
			return
		}
		var in wire.UserPatch
		if !decode(w, r, &in) {
			return
		}
		if !partial {
			fe := fieldErrors{}
			if in.Nombre == nil {
				fe.add("nombre", "This field is required.")
			}
			if in.Password == nil {
				fe.add("password", "This field is required.")
			}
			if !fe.empty() {
				writeBadRequest(w, fe)
				return
			}
		}
		if in.Nombre != nil {
			current.Name = *in.Nombre
		}
		if in.Password != nil {
			current.Password = *in.Password
		}
		if fe := validateUser(current); !fe.empty() {
			writeBadRequest(w, fe)
			return
		}
		updated, err := h.store.ReplaceUser(*current)
		if err != nil {
			writeStoreError(w, "id", err)
			return
		}
		writeJSON(w, http.StatusOK, wire.FromUser(updated))
	}
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(id); err != nil {
		writeStoreError(w, "id", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- lists ----------

func (h *handlers) listLists(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mapSlice(h.store.Lists(), wire.FromList))
}

func (h *handlers) listListsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lists, err := h.store.ListsByUser(id)
	if err != nil {
		writeStoreError(w, "usuario", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(lists, wire.FromList))
}

func (h *handlers) getList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := h.store.List(id)
	if err != nil {
		writeStoreError(w, "id", err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromList(l))
}

func validateList(l *entity.List) fieldErrors {
	fe := fieldErrors{}
	fe.requireName("nombre", l.Name, entity.MaxListNameLength)
	fe.date("fechacreacion", l.CreationDate)
	return fe
}

func requireListFields(in *wire.ListPatch) fieldErrors {
	fe := fieldErrors{}
	if in.Nombre == nil {
		fe.add("nombre", "This field is required.")
	}
	if in.FechaCreacion == nil {
		fe.add("fechacreacion", "This field is required.")
	}
	if in.Usuario == nil {
		fe.add("usuario", "This field is required.")
	}
	return fe
}

func (h *handlers) createList(w http.ResponseWriter, r *http.Request) {
	var in wire.ListPatch
	if !decode(w, r, &in) {
		return
	}
	if fe := requireListFields(&in); !fe.empty() {
		writeBadRequest(w, fe)
		return
	}
	l := entity.List{Name: *in.Nombre, CreationDate: *in.FechaCreacion, OwnerUserID: *in.Usuario}
	if fe := validateList(&l); !fe.empty() {
		writeBadRequest(w, fe)
		return
	}
	created, err := h.store.CreateList(l)
	if err != nil {
		writeStoreError(w, "usuario", err)
		return
	}
	logging.FromContext(r.Context()).Debug("list created", slog.Int64("list_id", created.ID), slog.Int64("user_id", created.OwnerUserID))
	writeJSON(w, http.StatusCreated, wire.FromList(created))
}

func (h *handlers) updateList(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		current, err := h.store.List(id)
		if err != nil {
			writeStoreError(w, "id", err)
			return
		}
		var in wire.ListPatch
		if !decode(w, r, &in) {
			return
		}
		if !partial {
			if fe := requireListFields(&in); !fe.empty() {
				writeBadRequest(w, fe)
				return
			}
		}
		if in.Nombre != nil {
			current.Name = *in.Nombre
		}
		if in.FechaCreacion != nil {
			current.CreationDate = *in.FechaCreacion
		}
		if in.Usuario != nil {
			current.OwnerUserID = *in.Usuario
		}
		if fe := validateList(current); !fe.empty() {
			writeBadRequest(w, fe)
			return
		}
		updated, err := h.store.ReplaceList(*current)
		if err != nil {
			writeStoreError(w, "usuario", err)
			return
		}
		writeJSON(w, http.StatusOK, wire.FromList(updated))
	}
}

func (h *handlers) deleteList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteList(id); err != nil {
		writeStoreError(w, "id", err)
		return
	}
	logging.FromContext(r.Context()).Debug("list deleted", slog.Int64("list_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ---------- articles ----------

func (h *handlers) listArticles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mapSlice(h.store.Articles(), wire.FromArticle))
}

func (h *handlers) listArticlesByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	articles, err := h.store.ArticlesByUser(id)
	if err != nil {
		writeStoreError(w, "usuario", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(articles, wire.FromArticle))
}

func (h *handlers) getArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.store.Article(id)
	if err != nil {
		writeStoreError(w, "id", err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromArticle(a))
}

func validateArticle(a *entity.Article) fieldErrors {
	fe := fieldErrors{}
	fe.requireName("nombre", a.Name, entity.MaxArticleNameLength)
	fe.limit("contenido", a.Content, entity.MaxArticleContentLength)
	return fe
}

func requireArticleFields(in *wire.ArticlePatch) fieldErrors {
	fe := fieldErrors{}
	if in.Nombre == nil {
		fe.add("nombre", "This field is required.")
	}
	if in.Contenido == nil {
		fe.add("contenido", "This field is required.")
	}
	if in.Listas == nil {
		fe.add("listas", "This field is required.")
	}
	return fe
}

func (h *handlers) createArticle(w http.ResponseWriter, r *http.Request) {
	var in wire.ArticlePatch
	if !decode(w, r, &in) {
		return
	}
	if in.Nombre == nil {
		writeBadRequest(w, fieldErrors{"nombre": {"This field is required."}})
		return
	}
	a := entity.Article{Name: *in.Nombre}
	if in.Contenido != nil {
		a.Content = *in.Contenido
	}
	if in.Listas != nil {
		a.ListIDs = *in.Listas
	}
	if fe := validateArticle(&a); !fe.empty() {
		writeBadRequest(w, fe)
		return
	}
	created, err := h.store.CreateArticle(a)
	if err != nil {
		writeStoreError(w, "listas", err)
		return
	}
	logging.FromContext(r.Context()).Debug("article created", slog.Int64("article_id", created.ID), slog.Any("list_ids", created.ListIDs))
	writeJSON(w, http.StatusCreated, wire.FromArticle(created))
}

func (h *handlers) updateArticle(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		current, err := h.store.Article(id)
		if err != nil {
			writeStoreError(w, "id", err)
			return
		}
		var in wire.ArticlePatch
		if !decode(w, r, &in) {
			return
		}
		if !partial {
			if fe := requireArticleFields(&in); !fe.empty() {
				writeBadRequest(w, fe)
				return
			}
		}
		if in.Nombre != nil {
			current.Name = *in.Nombre
		}
		if in.Contenido != nil {
			current.Content = *in.Contenido
		}
		if in.Listas != nil {
			current.ListIDs = *in.Listas
		}
		if fe := validateArticle(current); !fe.empty() {
			writeBadRequest(w, fe)
			return
		}
		updated, err := h.store.ReplaceArticle(*current)
		if err != nil {
			writeStoreError(w, "listas", err)
			return
		}
		writeJSON(w, http.StatusOK, wire.FromArticle(updated))
	}
}

func (h *handlers) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteArticle(id); err != nil {
		writeStoreError(w, "id", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
