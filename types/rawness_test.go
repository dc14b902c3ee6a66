package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRawness(t *testing.T) {
	mapDecl := &Declaration{Name: "Map", TypeParams: 2}

	tests := []struct {
		name     string
		sub, sup *Declared
		want     bool
	}{
		{
			"no arguments on the raw side accepted",
			NewRawDeclared(listDecl),
			NewDeclared(listDecl, str(qTop)),
			true,
		},
		{
			"missing supertype arguments accepted",
			NewDeclared(listDecl, str(qA)),
			NewRawDeclared(listDecl),
			true,
		},
		{
			"paired argument above fails",
			NewDeclared(mapDecl, str(qTop), str(qA)),
			NewDeclared(mapDecl, str(qA), str(qA)),
			false,
		},
		{
			"unannotated pairs accepted",
			NewDeclared(listDecl, NewDeclared(stringDecl)),
			NewDeclared(listDecl, NewDeclared(stringDecl)),
			true,
		},
		{
			"wildcard argument checks the extends bound",
			NewDeclared(listDecl, str(qA)),
			NewDeclared(listDecl, NewWildcard(str(qTop), nil)),
			true,
		},
		{
			"wildcard extends bound too low fails",
			NewDeclared(listDecl, str(qTop)),
			NewDeclared(listDecl, NewWildcard(str(qA), nil)),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHierarchy(t, Config{})
			got, err := defaultRawness{}.Valid(h, tt.sup, tt.sub, qTop, NewVisitHistory())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
