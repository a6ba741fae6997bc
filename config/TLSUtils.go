package config

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"
	"os"
	"strings"

	"go.uber.org/zap"
)

// buildx509Identity prepares a client certificate chain from paths to a PEM
// encoded certificate and key.
func buildx509Identity(certFile string, keyFile string) []tls.Certificate {
	theCert := make([]tls.Certificate, 0, 1)
	certs, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		logger.Info(
			"error loading x509 key pair",
			zap.Error(err),
			zap.String("certfile", certFile),
			zap.String("keyfile", keyFile),
		)
	} else {
		theCert = append(theCert, certs)
	}
	return theCert
}

// buildCertPoolFromPath prepares a certificate pool from the passed in file
// path. If the file path is an individual file, then a single PEM is placed
// in the pool. If it is a folder, then all files in the folder are added to the pool.
func buildCertPoolFromPath(filePath string, poolName string) *x509.CertPool {
	flogger := logger.With(zap.String("filepath", filePath)).With(zap.String("pool", poolName))
	flogger.Info("preparing certificate pool")
	theCertPool := x509.NewCertPool()

	// Open path indicated in configuration
	pathSpec, err := os.Open(filePath)
	if err != nil {
		flogger.Error("error opening file path", zap.Error(err))
		return theCertPool
	}
	defer pathSpec.Close()

	// Check information about the path specification
	pathSpecInfo, err := pathSpec.Stat()
	if err != nil {
		flogger.Error("error retrieving path specification information", zap.Error(err))
		return theCertPool
	}

	// Handle cases based on the type of path
	switch mode := pathSpecInfo.Mode(); {
	case mode.IsDir():
		// The path is a directory, read all the files
		files, err := ioutil.ReadDir(filePath)
		if err != nil {
			flogger.Error("reading directory", zap.Error(err))
			return theCertPool
		}
		if !strings.HasSuffix(filePath, "/") {
			filePath += "/"
		}
		// With each file
		for f := 0; f < len(files); f++ {
			if !files[f].IsDir() {
				addPEMFileToPool(filePath+files[f].Name(), theCertPool)
			}
		}
	case mode.IsRegular():
		addPEMFileToPool(filePath, theCertPool)
	}

	return theCertPool
}

// addPEMFileToPool takes a file path representing a certificate in PEM format
// and appends it to the passed in certificate pool. Intended for building up
// a certificate pool of trusted certificate authorities
func addPEMFileToPool(PEMfile string, certPool *x509.CertPool) {
	plogger := logger.With(zap.String("pem", PEMfile))
	plogger.Info("adding pem file")
	pem, err := ioutil.ReadFile(PEMfile)
	if err != nil {
		plogger.Error("error reading pem file", zap.Error(err))
		return
	}
	if ok := certPool.AppendCertsFromPEM(pem); !ok {
		plogger.Error("failed to append the PEM to the pool")
		return
	}
}
