package aramex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/beevik/etree"
	"github.com/tournevent/aramex/pkg/shipper"
	"golang.org/x/sync/errgroup"
)

// DescriptorResolver finds the service endpoint of each operation family in
// the WSDL files laid out as <dir>/<test|live>/<family>.xml.
type DescriptorResolver struct {
	dir string
	env Environment

	mu        sync.Mutex
	endpoints map[Family]string
}

// NewDescriptorResolver creates a resolver bound to one environment.
func NewDescriptorResolver(dir string, env Environment) *DescriptorResolver {
	return &DescriptorResolver{
		dir:       dir,
		env:       env,
		endpoints: make(map[Family]string),
	}
}

// Path returns the descriptor file for a family.
func (r *DescriptorResolver) Path(f Family) string {
	return filepath.Join(r.dir, r.env.String(), string(f)+".xml")
}

// Endpoint returns the service address declared by the family's descriptor.
// Results are cached for the lifetime of the resolver.
func (r *DescriptorResolver) Endpoint(f Family) (string, error) {
	r.mu.Lock()
	ep, ok := r.endpoints[f]
	r.mu.Unlock()
	if ok {
		return ep, nil
	}

	path := r.Path(f)
	ep, err := readEndpoint(path)
	if err != nil {
		return "", shipper.NewError(carrierName, shipper.KindConfiguration,
			fmt.Sprintf("%s service descriptor unusable at %s", f, path)).
			WithCause(err)
	}

	r.mu.Lock()
	r.endpoints[f] = ep
	r.mu.Unlock()
	return ep, nil
}

// Preload resolves every family at once so a broken install fails at
// startup instead of on the first call.
func (r *DescriptorResolver) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range Families {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := r.Endpoint(f)
			return err
		})
	}
	return g.Wait()
}

func readEndpoint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("parsing descriptor: %w", err)
	}
	if doc.Root() == nil {
		return "", errors.New("descriptor is empty")
	}

	if ep := findAddress(doc.Root()); ep != "" {
		return ep, nil
	}
	return "", errors.New("descriptor declares no service address")
}

// findAddress walks the document depth first for the first
// <address location="..."/> element, whatever its SOAP binding prefix.
func findAddress(el *etree.Element) string {
	if el.Tag == "address" {
		if loc := el.SelectAttrValue("location", ""); loc != "" {
			return loc
		}
	}
	for _, c := range el.ChildElements() {
		if loc := findAddress(c); loc != "" {
			return loc
		}
	}
	return ""
}
