package xmlrecord

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/crypto/pkcs12"
)

// Namespaces y algoritmos XMLDSig.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgDSigSHA256      = "http://www.w3.org/2000/09/xmldsig#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	signatureEl        = "ds:Signature"
)

// Signer firma el acta con XMLDSig enveloped (RSA-SHA256) usando el certificado de la organización.
type Signer struct {
	cert *x509.Certificate
	priv *rsa.PrivateKey
	now  func() time.Time
}

// NewSigner valida que el certificado traiga llave privada RSA.
func NewSigner(cert tls.Certificate) (*Signer, error) {
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("xmlrecord: certificado vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("xmlrecord: el certificado debe incluir llave privada RSA")
	}
	leaf := cert.Leaf
	if leaf == nil {
		var err error
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("xmlrecord: parsear certificado: %w", err)
		}
	}
	return &Signer{cert: leaf, priv: priv, now: time.Now}, nil
}

// LoadSigner carga el certificado desde .p12/.pfx (con password) o desde PEM
// (certificado y llave por separado, o combinados en certPath si keyPath está vacío).
func LoadSigner(certPath, keyPath, password string) (*Signer, error) {
	switch strings.ToLower(filepath.Ext(certPath)) {
	case ".p12", ".pfx":
		data, err := os.ReadFile(certPath)
		if err != nil {
			return nil, fmt.Errorf("leer p12: %w", err)
		}
		priv, cert, err := pkcs12.Decode(data, password)
		if err != nil {
			return nil, fmt.Errorf("decodificar p12: %w", err)
		}
		return NewSigner(tls.Certificate{Certificate: [][]byte{cert.Raw}, PrivateKey: priv, Leaf: cert})
	}
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("cargar PEM: %w", err)
	}
	return NewSigner(cert)
}

// Sign agrega ds:Signature como último hijo de root. La Reference apunta al Id del acta
// y su digest cubre el acta canonicalizada sin la firma (transformación enveloped).
func (s *Signer) Sign(root *etree.Element) error {
	canonicalDoc, err := canonicalRoot(root)
	if err != nil {
		return err
	}
	signedInfo := buildSignedInfo("#"+root.SelectAttrValue("Id", ""), digest(canonicalDoc))
	canonicalSI, err := canonicalRoot(signedInfo)
	if err != nil {
		return err
	}
	hash := sha256.Sum256(canonicalSI)
	sigValue, err := rsa.SignPKCS1v15(nil, s.priv, crypto.SHA256, hash[:])
	if err != nil {
		return fmt.Errorf("xmlrecord: firmar SignedInfo: %w", err)
	}

	sig := root.CreateElement(signatureEl)
	sig.CreateAttr("xmlns:ds", NamespaceDS)
	sig.AddChild(signedInfo)
	sig.CreateElement("ds:SignatureValue").SetText(base64.StdEncoding.EncodeToString(sigValue))

	x509Data := sig.CreateElement("ds:KeyInfo").CreateElement("ds:X509Data")
	x509Data.CreateElement("ds:X509Certificate").SetText(base64.StdEncoding.EncodeToString(s.cert.Raw))
	serial := x509Data.CreateElement("ds:X509IssuerSerial")
	serial.CreateElement("ds:X509IssuerName").SetText(s.cert.Issuer.String())
	serial.CreateElement("ds:X509SerialNumber").SetText(s.cert.SerialNumber.String())

	props := sig.CreateElement("ds:Object").CreateElement("SignatureProperties")
	props.CreateAttr("xmlns", Namespace)
	props.CreateElement("SigningTime").SetText(s.now().UTC().Format("2006-01-02T15:04:05.000Z"))
	certDigest := sha256.Sum256(s.cert.Raw)
	props.CreateElement("CertDigest").SetText(base64.StdEncoding.EncodeToString(certDigest[:]))
	return nil
}

func buildSignedInfo(uri, docDigest string) *etree.Element {
	si := etree.NewElement("ds:SignedInfo")
	si.CreateAttr("xmlns:ds", NamespaceDS)
	si.CreateElement("ds:CanonicalizationMethod").CreateAttr("Algorithm", AlgC14N)
	si.CreateElement("ds:SignatureMethod").CreateAttr("Algorithm", AlgRSASHA256)
	ref := si.CreateElement("ds:Reference")
	ref.CreateAttr("URI", uri)
	transforms := ref.CreateElement("ds:Transforms")
	transforms.CreateElement("ds:Transform").CreateAttr("Algorithm", TransformEnveloped)
	transforms.CreateElement("ds:Transform").CreateAttr("Algorithm", AlgC14N)
	ref.CreateElement("ds:DigestMethod").CreateAttr("Algorithm", AlgDSigSHA256)
	ref.CreateElement("ds:DigestValue").SetText(docDigest)
	return si
}

// VerifySignature comprueba la firma XMLDSig del acta con el certificado incluido en KeyInfo.
// Devuelve el certificado firmante cuando la firma es válida.
func VerifySignature(record []byte) (*x509.Certificate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(record); err != nil {
		return nil, fmt.Errorf("xmlrecord: parsear acta: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("xmlrecord: documento sin raíz")
	}
	sig := root.SelectElement(signatureEl)
	if sig == nil {
		return nil, fmt.Errorf("xmlrecord: acta sin firma")
	}
	signedInfo := sig.SelectElement("ds:SignedInfo")
	certEl := sig.FindElement("./ds:KeyInfo/ds:X509Data/ds:X509Certificate")
	valueEl := sig.SelectElement("ds:SignatureValue")
	digestEl := sig.FindElement("./ds:SignedInfo/ds:Reference/ds:DigestValue")
	if signedInfo == nil || certEl == nil || valueEl == nil || digestEl == nil {
		return nil, fmt.Errorf("xmlrecord: firma incompleta")
	}

	rawCert, err := base64.StdEncoding.DecodeString(strings.TrimSpace(certEl.Text()))
	if err != nil {
		return nil, fmt.Errorf("xmlrecord: certificado inválido: %w", err)
	}
	cert, err := x509.ParseCertificate(rawCert)
	if err != nil {
		return nil, fmt.Errorf("xmlrecord: parsear certificado: %w", err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("xmlrecord: llave pública no RSA")
	}
	sigValue, err := base64.StdEncoding.DecodeString(strings.TrimSpace(valueEl.Text()))
	if err != nil {
		return nil, fmt.Errorf("xmlrecord: SignatureValue inválido: %w", err)
	}

	canonicalSI, err := canonicalRoot(signedInfo)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(canonicalSI)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, hash[:], sigValue); err != nil {
		return nil, fmt.Errorf("xmlrecord: firma inválida: %w", err)
	}

	root.RemoveChild(sig)
	canonicalDoc, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal([]byte(digest(canonicalDoc)), []byte(strings.TrimSpace(digestEl.Text()))) {
		return nil, fmt.Errorf("xmlrecord: el acta fue modificada después de firmarse")
	}
	return cert, nil
}
