// Package portal builds Cromwell input JSON for the WGBS pipeline from an
// experiment stored on the ENCODE portal.
package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/wgbs/internal/fileutil"
	"github.com/pkg/errors"
)

// DefaultURL is the production ENCODE portal.
const DefaultURL = "https://www.encodeproject.org"

// Assemblies supported by the pipeline.
const (
	GRCh38 = "GRCh38"
	MM10   = "mm10"
)

// References are the reference files used for an assembly.
type References struct {
	Reference          string
	ExtraReference     string
	IndexedReference   string
	IndexedContigSizes string
}

// ReferenceFiles lists the portal reference files of each assembly.
// Indexed references are absolute URLs; the others are portal hrefs.
var ReferenceFiles = map[string]References{
	GRCh38: {
		Reference:          "/files/GRCh38_no_alt_analysis_set_GCA_000001405.15/@@download/GRCh38_no_alt_analysis_set_GCA_000001405.15.fasta.gz",
		ExtraReference:     "/files/lambda.fa/@@download/lambda.fa.fasta.gz",
		IndexedReference:   DefaultURL + "/files/ENCFF603ORM/@@download/ENCFF603ORM.tar.gz",
		IndexedContigSizes: "/files/ENCFF792NJK/@@download/ENCFF792NJK.tsv",
	},
	MM10: {
		Reference:          "/files/mm10_no_alt_analysis_set_ENCODE/@@download/mm10_no_alt_analysis_set_ENCODE.fasta.gz",
		ExtraReference:     "/files/lambda.fa/@@download/lambda.fa.fasta.gz",
		IndexedReference:   DefaultURL + "/files/ENCFF708YIO/@@download/ENCFF708YIO.tar.gz",
		IndexedContigSizes: "/files/mm10_no_alt.chrom.sizes/@@download/mm10_no_alt.chrom.sizes.tsv",
	},
}

// allowedStatuses are the file statuses whose fastqs are used.
var allowedStatuses = map[string]bool{
	"released":    true,
	"in progress": true,
}

// File is the subset of a portal file object used here.
type File struct {
	ID                   string `json:"@id"`
	Href                 string `json:"href"`
	FileFormat           string `json:"file_format"`
	Status               string `json:"status"`
	BiologicalReplicates []int  `json:"biological_replicates"`
	PairedEnd            string `json:"paired_end"`
	PairedWith           string `json:"paired_with"`
}

// Organism is the organism of a biosample.
type Organism struct {
	Name string `json:"name"`
}

// Replicate is the subset of a portal replicate object used here.
type Replicate struct {
	Library struct {
		Biosample struct {
			Organism Organism `json:"organism"`
		} `json:"biosample"`
	} `json:"library"`
}

// Experiment is the subset of a portal experiment object used here.
type Experiment struct {
	Accession  string      `json:"accession"`
	Files      []File      `json:"files"`
	Replicates []Replicate `json:"replicates"`
}

// Credentials is a portal access key pair.
type Credentials struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

// ReadKeypair reads the "submit" key pair from a keypairs.json file. A
// leading "~/" in path is replaced by the home directory. If the file
// does not exist, ReadKeypair returns nil credentials and no error.
func ReadKeypair(ctx context.Context, path string) (*Credentials, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "expand keypair path")
		}
		path = filepath.Join(home, path[2:])
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug.Printf("portal: no keypair file at %s, using anonymous access", path)
		return nil, nil
	}
	data, err := fileutil.ReadAll(ctx, path)
	if err != nil {
		return nil, err
	}
	var keypairs struct {
		Submit *Credentials `json:"submit"`
	}
	if err := json.Unmarshal(data, &keypairs); err != nil {
		return nil, errors.Wrapf(err, "parse keypair file %s", path)
	}
	if keypairs.Submit == nil {
		return nil, errors.Errorf("keypair file %s has no \"submit\" key pair", path)
	}
	return keypairs.Submit, nil
}

// Client fetches objects from the portal.
type Client struct {
	// URL is the portal base URL, DefaultURL if empty.
	URL string
	// Auth, if set, is sent as HTTP basic auth.
	Auth *Credentials
	// HTTPClient is used for requests, http.DefaultClient if nil.
	HTTPClient *http.Client
}

func (c *Client) baseURL() string {
	if c.URL == "" {
		return DefaultURL
	}
	return c.URL
}

// Resolve resolves a portal href (or accession) against the portal URL.
func (c *Client) Resolve(href string) (string, error) {
	base, err := url.Parse(c.baseURL())
	if err != nil {
		return "", errors.Wrapf(err, "parse portal URL %q", c.baseURL())
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(err, "parse href %q", href)
	}
	return base.ResolveReference(ref).String(), nil
}

// GetExperiment fetches the JSON representation of the experiment with the
// given accession.
func (c *Client) GetExperiment(ctx context.Context, accession string) (*Experiment, error) {
	u, err := c.Resolve(accession)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", u)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	if c.Auth != nil {
		req.SetBasicAuth(c.Auth.Key, c.Auth.Secret)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", u)
	}
	defer resp.Body.Close() // nolint: errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: %s", u, resp.Status)
	}
	return DecodeExperiment(resp.Body)
}

// DecodeExperiment decodes an experiment from its portal JSON.
func DecodeExperiment(r io.Reader) (*Experiment, error) {
	var exp Experiment
	if err := json.NewDecoder(r).Decode(&exp); err != nil {
		return nil, errors.Wrap(err, "decode experiment")
	}
	return &exp, nil
}

// FastqsFromExperiment returns the fastq URLs of an experiment, grouped by
// biological replicate in the order the replicates first appear. Each
// entry of a replicate is a read pair [R1, R2] for paired-end data or a
// single read [R1] otherwise. Only released and in progress files are used.
func (c *Client) FastqsFromExperiment(exp *Experiment) ([][][]string, error) {
	byID := make(map[string]*File, len(exp.Files))
	for i := range exp.Files {
		byID[exp.Files[i].ID] = &exp.Files[i]
	}
	var (
		order []int
		reps  = map[int][][]string{}
	)
	for _, f := range exp.Files {
		if f.FileFormat != "fastq" || !allowedStatuses[f.Status] {
			continue
		}
		if len(f.BiologicalReplicates) == 0 {
			return nil, errors.Errorf("fastq %s has no biological replicate", f.ID)
		}
		hrefs := []string{f.Href}
		if f.PairedWith != "" {
			if f.PairedEnd == "2" {
				continue
			}
			mate, ok := byID[f.PairedWith]
			if !ok {
				return nil, errors.Errorf("fastq %s is paired with %s, which is not in the experiment", f.ID, f.PairedWith)
			}
			hrefs = append(hrefs, mate.Href)
		}
		urls := make([]string, len(hrefs))
		for i, href := range hrefs {
			u, err := c.Resolve(href)
			if err != nil {
				return nil, err
			}
			urls[i] = u
		}
		rep := f.BiologicalReplicates[0]
		if _, ok := reps[rep]; !ok {
			order = append(order, rep)
		}
		reps[rep] = append(reps[rep], urls)
	}
	fastqs := make([][][]string, len(order))
	for i, rep := range order {
		fastqs[i] = reps[rep]
	}
	return fastqs, nil
}

// AssemblyFromExperiment returns the genome assembly matching the organism
// of the experiment's first replicate.
func AssemblyFromExperiment(exp *Experiment) (string, error) {
	if len(exp.Replicates) == 0 {
		return "", errors.Errorf("experiment %s has no replicates", exp.Accession)
	}
	organism := exp.Replicates[0].Library.Biosample.Organism.Name
	switch organism {
	case "human":
		return GRCh38, nil
	case "mouse":
		return MM10, nil
	}
	return "", errors.Errorf("could not determine assembly for organism %q", organism)
}

// InputJSON returns the Cromwell inputs of the pipeline.
func InputJSON(fastqs [][][]string, assembly string) (map[string]interface{}, error) {
	refs, ok := ReferenceFiles[assembly]
	if !ok {
		return nil, errors.Errorf("unknown assembly %q", assembly)
	}
	if fastqs == nil {
		fastqs = [][][]string{}
	}
	return map[string]interface{}{
		"wgbs.fastqs":               fastqs,
		"wgbs.reference":            refs.Reference,
		"wgbs.extra_reference":      refs.ExtraReference,
		"wgbs.indexed_reference":    refs.IndexedReference,
		"wgbs.indexed_contig_sizes": refs.IndexedContigSizes,
	}, nil
}

// WriteJSON writes v with sorted keys and a two space indent.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Opts configures Run.
type Opts struct {
	// URL is the portal base URL.
	URL string
	// KeypairFile holds the portal credentials, see ReadKeypair.
	KeypairFile string
	// Outfile is the output path, "<accession>.json" if empty.
	Outfile string
}

// DefaultOpts holds the default settings.
var DefaultOpts = Opts{
	URL:         DefaultURL,
	KeypairFile: "~/keypairs.json",
}

// Run fetches the experiment with the given accession and writes its
// Cromwell input JSON. It returns the output path.
func Run(ctx context.Context, accession string, opts Opts) (string, error) {
	auth, err := ReadKeypair(ctx, opts.KeypairFile)
	if err != nil {
		return "", err
	}
	c := &Client{URL: opts.URL, Auth: auth}
	exp, err := c.GetExperiment(ctx, accession)
	if err != nil {
		return "", err
	}
	fastqs, err := c.FastqsFromExperiment(exp)
	if err != nil {
		return "", err
	}
	assembly, err := AssemblyFromExperiment(exp)
	if err != nil {
		return "", err
	}
	input, err := InputJSON(fastqs, assembly)
	if err != nil {
		return "", err
	}
	out := opts.Outfile
	if out == "" {
		out = accession + ".json"
	}
	log.Printf("portal: writing %s inputs (%s, %d replicates) to %s", accession, assembly, len(fastqs), out)
	return out, fileutil.WriteWith(ctx, out, func(w io.Writer) error {
		return WriteJSON(w, input)
	})
}
