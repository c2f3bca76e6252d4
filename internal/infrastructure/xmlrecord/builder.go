// Package xmlrecord construye el acta XML de aprobaciones de una solicitud.
//
// El acta se canonicaliza (C14N) y su SHA-256 se adjunta en el elemento Integrity,
// de modo que cualquier alteración posterior del acta es detectable con Verify.
// Con un Signer configurado se agrega además una firma XMLDSig enveloped.
package xmlrecord

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// Algoritmos declarados en el acta.
const (
	Namespace   = "urn:accesos:approval-record:1"
	AlgC14N     = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256   = "http://www.w3.org/2001/04/xmlenc#sha256"
	integrityEl = "Integrity"
)

var _ report.ApprovalRecordBuilder = (*Builder)(nil)

// Builder implementa report.ApprovalRecordBuilder con etree + C14N.
type Builder struct {
	now    func() time.Time
	signer *Signer
}

// Option configura el Builder.
type Option func(*Builder)

// WithSigner firma cada acta con el certificado dado.
func WithSigner(s *Signer) Option {
	return func(b *Builder) { b.signer = s }
}

// WithClock reemplaza el reloj de generatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder construye el generador de actas.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Signed informa si las actas se firman.
func (b *Builder) Signed() bool { return b.signer != nil }

// BuildApprovalRecord genera el acta XML con el digest de integridad.
func (b *Builder) BuildApprovalRecord(_ context.Context, req *entity.AccessRequest) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("xmlrecord: solicitud nula")
	}
	root := etree.NewElement("ApprovalRecord")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("Id", "record-"+req.ID)
	root.CreateAttr("generatedAt", b.now().UTC().Format(time.RFC3339))

	r := root.CreateElement("Request")
	r.CreateAttr("id", req.ID)
	r.CreateAttr("status", string(req.Status))
	r.CreateAttr("createdDate", req.CreatedDate)
	r.CreateAttr("priority", string(req.Details.Priority))
	r.CreateAttr("requiredDate", req.Details.RequiredDate)

	emp := root.CreateElement("Employee")
	emp.CreateAttr("code", req.Details.EmployeeCode)
	emp.CreateAttr("name", req.Details.FullName)
	emp.CreateAttr("department", req.Details.Department)

	requester := root.CreateElement("Requester")
	requester.CreateAttr("id", req.RequesterID)
	requester.CreateAttr("name", req.RequesterName)
	if sig, ok := req.Signatures[entity.StageRequester]; ok {
		requester.CreateAttr("signatureDigest", digest([]byte(sig)))
	}

	approvals := root.CreateElement("Approvals")
	for _, stage := range entity.ApproverStages() {
		a, ok := req.Approvals[stage]
		if !ok {
			continue
		}
		el := approvals.CreateElement("Approval")
		el.CreateAttr("stage", string(stage))
		el.CreateAttr("date", a.Date)
		el.CreateAttr("approver", a.ApproverName)
		if sig, ok := req.Signatures[stage]; ok {
			el.CreateAttr("signatureDigest", digest([]byte(sig)))
		}
		if a.Comments != "" {
			el.CreateElement("Comments").SetText(a.Comments)
		}
	}

	if c := req.Credentials; c != nil {
		el := root.CreateElement("Credentials")
		el.CreateAttr("issuedAt", c.IssuedAt)
		el.CreateAttr("email", c.Email)
		el.CreateAttr("username", c.Username)
		el.CreateAttr("networkUser", c.NetworkUser)
		el.CreateAttr("appUser", c.AppUser)
	}

	canonical, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}
	integrity := root.CreateElement(integrityEl)
	integrity.CreateAttr("canonicalization", AlgC14N)
	integrity.CreateAttr("digestMethod", AlgSHA256)
	integrity.SetText(digest(canonical))

	if b.signer != nil {
		if err := b.signer.Sign(root); err != nil {
			return nil, err
		}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xmlrecord: serializar: %w", err)
	}
	return out.Bytes(), nil
}

// Verify recalcula el digest del acta sin Integrity ni firma y lo compara con el declarado.
func Verify(record []byte) (bool, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(record); err != nil {
		return false, fmt.Errorf("xmlrecord: parsear acta: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return false, fmt.Errorf("xmlrecord: documento sin raíz")
	}
	integrity := root.SelectElement(integrityEl)
	if integrity == nil {
		return false, fmt.Errorf("xmlrecord: acta sin elemento %s", integrityEl)
	}
	declared := integrity.Text()
	root.RemoveChild(integrity)
	if sig := root.SelectElement(signatureEl); sig != nil {
		root.RemoveChild(sig)
	}

	canonical, err := canonicalRoot(root)
	if err != nil {
		return false, err
	}
	return digest(canonical) == declared, nil
}

// canonicalRoot serializa una copia del elemento como documento propio y la canonicaliza.
func canonicalRoot(root *etree.Element) ([]byte, error) {
	d := etree.NewDocument()
	d.SetRoot(root.Copy())
	raw, err := d.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlrecord: serializar: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("xmlrecord: canonicalizar: %w", err)
	}
	return canonical, nil
}

func digest(b []byte) string {
	sum := sha256.Sum256(b)
	return base64.StdEncoding.EncodeToString(sum[:])
}
