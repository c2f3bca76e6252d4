package xmlrecord_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Accesos-api/internal/infrastructure/xmlrecord"
)

// selfSigned genera un certificado RSA de prueba.
func selfSigned(t *testing.T) (tls.Certificate, []byte, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tpl := &x509.Certificate{
		SerialNumber: big.NewInt(4493),
		Subject:      pkix.Name{CommonName: "Acta de accesos", Organization: []string{"Empresa"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
	require.NoError(t, err)
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)
	return cert, certPEM, keyPEM
}

func TestSigner_FirmaYVerifica(t *testing.T) {
	cert, _, _ := selfSigned(t)
	signer, err := xmlrecord.NewSigner(cert)
	require.NoError(t, err)

	builder := xmlrecord.NewBuilder(xmlrecord.WithSigner(signer))
	assert.True(t, builder.Signed())
	b, err := builder.BuildApprovalRecord(context.Background(), approvedRequest())
	require.NoError(t, err)
	assert.Contains(t, string(b), "ds:SignatureValue")

	signerCert, err := xmlrecord.VerifySignature(b)
	require.NoError(t, err)
	assert.Equal(t, "Acta de accesos", signerCert.Subject.CommonName)

	ok, err := xmlrecord.Verify(b)
	require.NoError(t, err)
	assert.True(t, ok, "el digest de integridad ignora la firma")
}

func TestSigner_DetectaAlteraciones(t *testing.T) {
	cert, _, _ := selfSigned(t)
	signer, err := xmlrecord.NewSigner(cert)
	require.NoError(t, err)
	b, err := xmlrecord.NewBuilder(xmlrecord.WithSigner(signer)).BuildApprovalRecord(context.Background(), approvedRequest())
	require.NoError(t, err)

	tampered := bytes.Replace(b, []byte("María García"), []byte("Otra Persona"), 1)
	_, err = xmlrecord.VerifySignature(tampered)
	assert.Error(t, err)

	unsigned, err := xmlrecord.NewBuilder().BuildApprovalRecord(context.Background(), approvedRequest())
	require.NoError(t, err)
	_, err = xmlrecord.VerifySignature(unsigned)
	assert.Error(t, err, "acta sin firma")
}

func TestLoadSigner_PEM(t *testing.T) {
	_, certPEM, keyPEM := selfSigned(t)
	dir := t.TempDir()
	certPath := filepath.Join(dir, "acta.crt")
	keyPath := filepath.Join(dir, "acta.key")
	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))

	_, err := xmlrecord.LoadSigner(certPath, keyPath, "")
	require.NoError(t, err)

	combined := filepath.Join(dir, "acta.pem")
	require.NoError(t, os.WriteFile(combined, append(certPEM, keyPEM...), 0o600))
	_, err = xmlrecord.LoadSigner(combined, "", "")
	require.NoError(t, err, "certificado y llave en el mismo archivo")

	_, err = xmlrecord.LoadSigner(filepath.Join(dir, "no-existe.p12"), "", "x")
	assert.Error(t, err)
}

func TestNewSigner_SinLlaveRSA(t *testing.T) {
	_, err := xmlrecord.NewSigner(tls.Certificate{})
	assert.Error(t, err)
}
