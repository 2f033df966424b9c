package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"estudeapostilas/internal/catalog"
	"estudeapostilas/internal/models"
)

type catalogFixture struct {
	handouts *memHandouts
	subs     *memSubCategories
	h        *Catalog

	direito, ingles models.SubCategory
}

func newCatalogFixture() *catalogFixture {
	subs := &memSubCategories{}
	f := &catalogFixture{subs: subs, handouts: &memHandouts{subs: subs}}
	f.direito = subs.add("Direito", models.CategoryConcursos)
	f.ingles = subs.add("Inglês", models.CategoryIdiomas)

	f.handouts.add(models.Handout{Title: "Matemática para Concursos", Category: models.CategoryConcursos, Description: "Aritmética"})
	f.handouts.add(models.Handout{Title: "Direito Constitucional", Category: models.CategoryConcursos, SubCategoryID: &f.direito.ID, Description: "CF/88"})
	f.handouts.add(models.Handout{Title: "Inglês Instrumental", Category: models.CategoryIdiomas, SubCategoryID: &f.ingles.ID, Description: "Leitura"})
	f.handouts.add(models.Handout{Title: "Cálculo I", Category: models.CategoryGraduacao, Description: "Limites e derivadas de MATEMÁTICA"})

	f.h = NewCatalog(f.handouts, f.subs)
	return f
}

func (f *catalogFixture) get(query url.Values) (*httptest.ResponseRecorder, catalog.View) {
	req := httptest.NewRequest(http.MethodGet, "/api/catalog?"+query.Encode(), nil)
	rr := httptest.NewRecorder()
	f.h.Catalog(rr, req)

	var v catalog.View
	if rr.Code == http.StatusOK {
		_ = jsonUnmarshal(rr.Body.Bytes(), &v)
	}
	return rr, v
}

func titles(hs []models.Handout) []string {
	out := []string{}
	for _, h := range hs {
		out = append(out, h.Title)
	}
	return out
}

func TestCategoriesHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewCatalog(nil, nil).Categories(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	var got []string
	decodeBody(t, rr, &got)
	want := []string{"Concursos", "Graduação", "Técnico", "Idiomas", "Vestibular", "Tecnologia da Informação", "Geral"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestSubCategoriesHandler(t *testing.T) {
	f := newCatalogFixture()

	tests := []struct {
		name     string
		query    string
		wantCode int
		want     []string
	}{
		{"all", "", http.StatusOK, []string{"Direito", "Inglês"}},
		{"explicit All", "?category=All", http.StatusOK, []string{"Direito", "Inglês"}},
		{"one category", "?category=Idiomas", http.StatusOK, []string{"Inglês"}},
		{"empty category", "?category=Geral", http.StatusOK, []string{}},
		{"unknown category", "?category=Medicina", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			f.h.SubCategories(rr, httptest.NewRequest(http.MethodGet, "/api/subcategories"+tt.query, nil))

			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var got []models.SubCategory
			decodeBody(t, rr, &got)
			names := []string{}
			for _, s := range got {
				names = append(names, s.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubCategoriesHandlerFailSoft(t *testing.T) {
	f := newCatalogFixture()
	f.subs.listErr = errBoom

	rr := httptest.NewRecorder()
	f.h.SubCategories(rr, httptest.NewRequest(http.MethodGet, "/api/subcategories", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("body: got %q, want []", body)
	}
}

func TestCatalogHandler(t *testing.T) {
	f := newCatalogFixture()

	tests := []struct {
		name        string
		query       url.Values
		wantState   catalog.State
		wantHeading string
		wantTitles  []string
		wantSubs    int
	}{
		{
			name:        "initial state lists everything newest first",
			query:       url.Values{},
			wantState:   catalog.InitialState(),
			wantHeading: "Materiais Recentes",
			wantTitles:  []string{"Cálculo I", "Inglês Instrumental", "Direito Constitucional", "Matemática para Concursos"},
		},
		{
			name:        "category",
			query:       url.Values{"category": {"Concursos"}},
			wantState:   catalog.State{Category: "Concursos", SubCategory: catalog.All},
			wantHeading: "Apostilas de Concursos",
			wantTitles:  []string{"Direito Constitucional", "Matemática para Concursos"},
			wantSubs:    1,
		},
		{
			name:        "category and subcategory",
			query:       url.Values{"category": {"Concursos"}, "subcategory": {f.direito.ID.String()}},
			wantState:   catalog.State{Category: "Concursos", SubCategory: f.direito.ID.String()},
			wantHeading: "Concursos > Direito",
			wantTitles:  []string{"Direito Constitucional"},
			wantSubs:    1,
		},
		{
			name:        "subcategory of another category is dropped",
			query:       url.Values{"category": {"Concursos"}, "subcategory": {f.ingles.ID.String()}},
			wantState:   catalog.State{Category: "Concursos", SubCategory: catalog.All},
			wantHeading: "Apostilas de Concursos",
			wantTitles:  []string{"Direito Constitucional", "Matemática para Concursos"},
			wantSubs:    1,
		},
		{
			name:        "unknown category falls back to All",
			query:       url.Values{"category": {"Medicina"}},
			wantState:   catalog.InitialState(),
			wantHeading: "Materiais Recentes",
			wantTitles:  []string{"Cálculo I", "Inglês Instrumental", "Direito Constitucional", "Matemática para Concursos"},
		},
		{
			name:        "search is case-insensitive across title and description",
			query:       url.Values{"q": {"matemática"}},
			wantState:   catalog.State{Category: catalog.All, SubCategory: catalog.All, Query: "matemática"},
			wantHeading: "Materiais Recentes",
			wantTitles:  []string{"Cálculo I", "Matemática para Concursos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, v := f.get(tt.query)
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}
			if diff := cmp.Diff(tt.wantState, v.State); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
			if v.Heading != tt.wantHeading {
				t.Errorf("heading: got %q, want %q", v.Heading, tt.wantHeading)
			}
			if diff := cmp.Diff(tt.wantTitles, titles(v.Handouts)); diff != "" {
				t.Errorf("handouts mismatch (-want +got):\n%s", diff)
			}
			if len(v.SubCategories) != tt.wantSubs {
				t.Errorf("visible subcategories: got %d, want %d", len(v.SubCategories), tt.wantSubs)
			}
			if len(v.Categories) != len(models.Categories())+1 {
				t.Errorf("category entries: got %d", len(v.Categories))
			}
		})
	}
}

func TestCatalogHandlerEmpty(t *testing.T) {
	f := newCatalogFixture()
	_, v := f.get(url.Values{"category": {"Técnico"}})

	if !v.Empty {
		t.Error("view should be empty")
	}
	if v.EmptyMessage != catalog.EmptyMessage {
		t.Errorf("empty message: got %q", v.EmptyMessage)
	}
	if v.Handouts == nil {
		t.Error("handouts should encode as [] not null")
	}
}

func TestCatalogHandlerFailSoft(t *testing.T) {
	f := newCatalogFixture()
	f.handouts.listErr = errBoom

	rr, v := f.get(url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !v.Empty {
		t.Error("failed fetch should render the empty view")
	}
}

func TestHandoutHandler(t *testing.T) {
	f := newCatalogFixture()
	known := f.handouts.items[0]

	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{"found", known.ID.String(), http.StatusOK},
		{"missing", uuid.NewString(), http.StatusNotFound},
		{"malformed", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/handouts/"+tt.id, nil), "id", tt.id)
			rr := httptest.NewRecorder()
			f.h.Handout(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK {
				var got models.Handout
				decodeBody(t, rr, &got)
				if got.Title != known.Title {
					t.Errorf("title: got %q, want %q", got.Title, known.Title)
				}
			}
		})
	}
}

func TestHandoutHandlerStoreError(t *testing.T) {
	f := newCatalogFixture()
	f.handouts.listErr = errBoom

	id := uuid.NewString()
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/handouts/"+id, nil), "id", id)
	rr := httptest.NewRecorder()
	f.h.Handout(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
}
